// Package relay fans the MJ event stream out to the viewers attached to this
// player process.
//
// A single mutex serializes upstream events, attachments and detachments.
// Handling one upstream event (history update plus queueing on every channel)
// is one critical section, and so is an attachment (replay plus
// registration). A channel therefore sees either the replayed copy of an
// event or its live copy, never both and never neither. Writes to the viewer
// connections happen outside the lock, from each channel's queue.
package relay

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultChannelBufferSize = 64

type Options struct {
	ChatCapacity      int
	ChannelBufferSize int
}

type Relay struct {
	logger *zap.Logger

	channelBufferSize int
	apply             map[Kind]func(Event)

	mu       sync.Mutex
	history  *History
	registry *registry
}

func New(logger *zap.Logger, options Options) *Relay {
	channelBufferSize := options.ChannelBufferSize
	if channelBufferSize <= 0 {
		channelBufferSize = DefaultChannelBufferSize
	}

	r := &Relay{
		logger:            logger,
		channelBufferSize: channelBufferSize,
		history:           NewHistory(options.ChatCapacity),
		registry:          newRegistry(logger),
	}

	r.apply = map[Kind]func(Event){
		KindState: func(event Event) { r.history.RecordSnapshot(event.Payload) },
		KindChat:  func(event Event) { r.history.AppendChat(event) },
		// turn notifications are relayed live only and never replayed
		KindTurn: func(Event) {},
	}

	return r
}

// HandleEvent applies one upstream event to the history and broadcasts it.
// Events are handled one at a time in call order.
func (r *Relay) HandleEvent(event Event) {
	apply, ok := r.apply[event.Kind]
	if !ok {
		r.logger.Warn("dropping event of unknown kind",
			zap.String("event", string(event.Kind)))

		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	apply(event)

	delivered := r.registry.broadcast(event)

	r.logger.Debug("event relayed",
		zap.String("event", string(event.Kind)),
		zap.Int("channels", delivered),
		zap.Duration("latency", time.Since(event.ReceiveTime)))
}

// Broadcast pushes event to every attached channel without touching the
// history.
func (r *Relay) Broadcast(event Event) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registry.broadcast(event)
}

// Attach creates a channel preloaded with the replay (the snapshot if any,
// then every buffered chat event in order) and registers it, as one step
// with respect to HandleEvent.
func (r *Relay) Attach() *Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot, hasSnapshot := r.history.Snapshot()
	chats := r.history.chats

	channel := newChannel(1 + len(chats) + r.channelBufferSize)

	if hasSnapshot {
		channel.Send <- Event{Kind: KindState, Payload: snapshot}
	}

	for _, chat := range chats {
		channel.Send <- chat
	}

	r.registry.register(channel)
	channel.activate()

	r.logger.Info("channel attached",
		zap.String("channelId", channel.Id),
		zap.Bool("snapshot", hasSnapshot),
		zap.Int("chats", len(chats)),
		zap.Int("channels", r.registry.len()))

	return channel
}

// Detach unregisters the channel and closes its queue. Detaching twice is a
// no-op.
func (r *Relay) Detach(channel *Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.registry.unregister(channel.Id) {
		return
	}

	r.logger.Info("channel detached",
		zap.String("channelId", channel.Id),
		zap.Int("channels", r.registry.len()))
}

func (r *Relay) IsAttached(channelId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registry.contains(channelId)
}

func (r *Relay) ChannelCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registry.len()
}

func (r *Relay) Snapshot() (json.RawMessage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.history.Snapshot()
}

func (r *Relay) ChatHistory() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.history.ChatHistory()
}
