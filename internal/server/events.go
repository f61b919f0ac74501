package server

import (
	"bytes"
	"net/http"
	"time"

	"github.com/goevery/playerrelay/internal/relay"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	DefaultKeepAliveInterval = 15 * time.Second

	writeWait = 10 * time.Second
)

type ChannelAttacher interface {
	Attach() *relay.Channel
	Detach(channel *relay.Channel)
}

// EventStreamServer serves the relay to viewers as a text/event-stream.
type EventStreamServer struct {
	logger   *zap.Logger
	attacher ChannelAttacher

	keepAliveInterval time.Duration
}

func NewEventStreamServer(
	logger *zap.Logger,
	attacher ChannelAttacher,
	keepAliveInterval time.Duration,
) *EventStreamServer {
	if keepAliveInterval <= 0 {
		keepAliveInterval = DefaultKeepAliveInterval
	}

	return &EventStreamServer{
		logger,
		attacher,
		keepAliveInterval,
	}
}

func (s *EventStreamServer) Register(router *mux.Router) {
	router.HandleFunc("/events", s.handleEvents).Methods("GET")
}

func (s *EventStreamServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	controller := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := controller.Flush(); err != nil {
		s.logger.Error("response does not support streaming", zap.Error(err))
		return
	}

	channel := s.attacher.Attach()
	defer s.attacher.Detach(channel)

	logger := s.logger.With(
		zap.String("channelId", channel.Id),
		zap.String("transport", "sse"),
		zap.String("remoteAddr", r.RemoteAddr))

	ticker := time.NewTicker(s.keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug("viewer disconnected")
			return
		case event, ok := <-channel.Send:
			if !ok {
				logger.Info("channel closed by relay")
				return
			}

			if err := writeStreamFrame(controller, w, encodeEvent(event)); err != nil {
				logger.Warn("failed to write event", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := writeStreamFrame(controller, w, []byte(": ping\n\n")); err != nil {
				logger.Warn("failed to write keep-alive", zap.Error(err))
				return
			}
		}
	}
}

func writeStreamFrame(controller *http.ResponseController, w http.ResponseWriter, frame []byte) error {
	// not every ResponseWriter supports deadlines, httptest's recorder does not
	_ = controller.SetWriteDeadline(time.Now().Add(writeWait))

	if _, err := w.Write(frame); err != nil {
		return err
	}

	return controller.Flush()
}

// encodeEvent frames one event: an event line, one data line per payload
// line, and a blank line.
func encodeEvent(event relay.Event) []byte {
	var buf bytes.Buffer

	buf.WriteString("event: ")
	buf.WriteString(string(event.Kind))
	buf.WriteByte('\n')

	for _, line := range bytes.Split(event.Payload, []byte("\n")) {
		buf.WriteString("data: ")
		buf.Write(bytes.TrimSuffix(line, []byte("\r")))
		buf.WriteByte('\n')
	}

	buf.WriteByte('\n')

	return buf.Bytes()
}
