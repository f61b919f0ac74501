package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/goevery/playerrelay/internal/relay"
	"github.com/goevery/playerrelay/internal/rpc"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	maxMessageSize = 16 << 10

	replyQueueSize = 16
)

// WebSocketServer serves the relay over WebSocket: relayed events are pushed
// as {"event","data"} frames and viewer requests are answered on the same
// socket.
type WebSocketServer struct {
	logger   *zap.Logger
	upgrader *websocket.Upgrader
	attacher ChannelAttacher
	router   *Router

	keepAliveInterval time.Duration
}

func NewWebSocketServer(
	logger *zap.Logger,
	upgrader *websocket.Upgrader,
	attacher ChannelAttacher,
	router *Router,
	keepAliveInterval time.Duration,
) *WebSocketServer {
	if keepAliveInterval <= 0 {
		keepAliveInterval = DefaultKeepAliveInterval
	}

	return &WebSocketServer{
		logger,
		upgrader,
		attacher,
		router,
		keepAliveInterval,
	}
}

func (s *WebSocketServer) Register(router *mux.Router) {
	router.HandleFunc("/ws", s.handleWebSocket).Methods("GET")
}

func (s *WebSocketServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	channel := s.attacher.Attach()
	defer s.attacher.Detach(channel)

	logger := s.logger.With(
		zap.String("channelId", channel.Id),
		zap.String("transport", "websocket"),
		zap.String("remoteAddr", r.RemoteAddr))

	ctx, cancel := context.WithCancel(relay.WithChannel(r.Context(), channel))
	defer cancel()

	pongWait := 2 * s.keepAliveInterval

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	replies := make(chan rpc.Response, replyQueueSize)
	readerDone := make(chan struct{})

	go s.readRequests(ctx, logger, conn, replies, readerDone)

	ticker := time.NewTicker(s.keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-readerDone:
			logger.Debug("viewer disconnected")
			return
		case event, ok := <-channel.Send:
			if !ok {
				logger.Info("channel closed by relay")
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"),
					time.Now().Add(writeWait))
				return
			}

			notification := rpc.Notification{
				Event: string(event.Kind),
				Data:  event.Payload,
			}

			if err := s.write(conn, notification); err != nil {
				logger.Warn("failed to write event", zap.Error(err))
				return
			}
		case reply := <-replies:
			if err := s.write(conn, reply); err != nil {
				logger.Warn("failed to write reply", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				logger.Warn("failed to write ping", zap.Error(err))
				return
			}
		}
	}
}

func (s *WebSocketServer) write(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

	return conn.WriteJSON(v)
}

// readRequests routes viewer requests until the connection fails. It is the
// only reader of conn.
func (s *WebSocketServer) readRequests(
	ctx context.Context,
	logger *zap.Logger,
	conn *websocket.Conn,
	replies chan<- rpc.Response,
	done chan<- struct{},
) {
	defer close(done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("websocket read failed", zap.Error(err))
			}

			return
		}

		var request rpc.Request
		if err := json.Unmarshal(data, &request); err != nil || request.Method == "" {
			logger.Warn("ignoring malformed request", zap.ByteString("data", data))
			continue
		}

		response := s.router.RouteRequest(ctx, request)
		if response == nil {
			continue
		}

		select {
		case replies <- *response:
		case <-ctx.Done():
			return
		}
	}
}
