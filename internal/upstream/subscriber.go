package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goevery/playerrelay/internal/relay"
	"github.com/r3labs/sse/v2"
	"go.uber.org/zap"
	backoff "gopkg.in/cenkalti/backoff.v1"
)

const (
	DefaultReconnectDelay = time.Second

	maxReconnectInterval = 5 * time.Second
)

type EventHandler interface {
	HandleEvent(event relay.Event)
}

type SubscriberOptions struct {
	ReconnectDelay time.Duration
}

// Subscriber keeps one SSE subscription to the MJ event stream open for as
// long as its context lives and hands every well-formed event to the
// EventHandler, in arrival order.
type Subscriber struct {
	logger            *zap.Logger
	client            *sse.Client
	reconnectStrategy backoff.BackOff
	handler           EventHandler

	reconnectDelay time.Duration
	parsers        map[relay.Kind]func([]byte) error
}

func NewSubscriber(
	logger *zap.Logger,
	eventsURL string,
	handler EventHandler,
	options SubscriberOptions,
) *Subscriber {
	reconnectDelay := options.ReconnectDelay
	if reconnectDelay <= 0 {
		reconnectDelay = DefaultReconnectDelay
	}

	logger = logger.With(zap.String("upstream", eventsURL))

	reconnectStrategy := backoff.NewExponentialBackOff()
	reconnectStrategy.MaxInterval = maxReconnectInterval
	reconnectStrategy.MaxElapsedTime = 0

	client := sse.NewClient(eventsURL)
	client.ReconnectNotify = func(err error, next time.Duration) {
		logger.Warn("upstream event stream error, retrying",
			zap.Error(err),
			zap.Duration("retryIn", next))
	}
	client.OnConnect(func(*sse.Client) {
		logger.Info("connected to upstream event stream")
	})
	client.OnDisconnect(func(*sse.Client) {
		logger.Warn("disconnected from upstream event stream")
	})

	return &Subscriber{
		logger:            logger,
		client:            client,
		reconnectStrategy: reconnectStrategy,
		handler:           handler,
		reconnectDelay:    reconnectDelay,
		parsers: map[relay.Kind]func([]byte) error{
			relay.KindState: validPayload,
			relay.KindChat:  validPayload,
			relay.KindTurn:  validPayload,
		},
	}
}

// Run blocks until ctx is cancelled. Stream failures are logged and the
// subscription is opened again; they never end Run.
func (s *Subscriber) Run(ctx context.Context) error {
	s.client.ReconnectStrategy = &contextBackOff{ctx: ctx, backOff: s.reconnectStrategy}

	for {
		err := s.client.SubscribeRawWithContext(ctx, s.dispatch)

		if ctx.Err() != nil {
			s.logger.Info("upstream subscription stopped")

			return nil
		}

		if err != nil {
			s.logger.Error("upstream subscription failed", zap.Error(err))
		} else {
			s.logger.Warn("upstream event stream ended")
		}

		select {
		case <-ctx.Done():
			s.logger.Info("upstream subscription stopped")

			return nil
		case <-time.After(s.reconnectDelay):
		}
	}
}

func (s *Subscriber) dispatch(msg *sse.Event) {
	if msg == nil {
		return
	}

	if _, ok := s.parsers[relay.Kind(msg.Event)]; !ok {
		s.logger.Debug("ignoring upstream event", zap.ByteString("event", msg.Event))

		return
	}

	event, err := s.parse(msg)
	if err != nil {
		s.logger.Warn("dropping upstream event", zap.Error(err))

		return
	}

	s.handler.HandleEvent(event)
}

func (s *Subscriber) parse(msg *sse.Event) (relay.Event, error) {
	if msg == nil {
		return relay.Event{}, errors.New("empty event")
	}

	kind := relay.Kind(msg.Event)

	parser, ok := s.parsers[kind]
	if !ok {
		return relay.Event{}, fmt.Errorf("unknown event %q", kind)
	}

	if err := parser(msg.Data); err != nil {
		return relay.Event{}, fmt.Errorf("malformed %s payload: %w", kind, err)
	}

	// the payload outlives the callback
	payload := make(json.RawMessage, len(msg.Data))
	copy(payload, msg.Data)

	return relay.NewEvent(kind, payload), nil
}

// contextBackOff stops the client's retries once ctx is done.
type contextBackOff struct {
	ctx     context.Context
	backOff backoff.BackOff
}

func (b *contextBackOff) NextBackOff() time.Duration {
	if b.ctx.Err() != nil {
		return backoff.Stop
	}

	return b.backOff.NextBackOff()
}

func (b *contextBackOff) Reset() {
	b.backOff.Reset()
}

// validPayload accepts any JSON value. Payloads are relayed as-is, so their
// shape is the MJ's business.
func validPayload(data []byte) error {
	if !json.Valid(data) {
		return errors.New("invalid json")
	}

	return nil
}
