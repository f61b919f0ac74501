package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goevery/playerrelay/internal/handler"
	"github.com/goevery/playerrelay/internal/relay"
	"github.com/goevery/playerrelay/internal/upstream"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type testRelayServer struct {
	relay  *relay.Relay
	server *httptest.Server
}

func newTestRelayServer(t *testing.T, mjURL string, options relay.Options) *testRelayServer {
	t.Helper()

	logger, _ := zap.NewDevelopment()

	r := relay.New(logger, options)
	actionClient := upstream.NewActionClient(logger, mjURL, "p1", time.Second)
	requestValidator := handler.NewRequestValidator()

	healthHandler := handler.NewHealthHandler("p1", mjURL, r)
	stateHandler := handler.NewStateHandler(r)
	joinHandler := handler.NewJoinHandler(actionClient)
	sayHandler := handler.NewSayHandler(requestValidator, actionClient)
	startHandler := handler.NewStartHandler(actionClient)

	originChecker := NewOriginChecker("*")
	upgrader := &websocket.Upgrader{CheckOrigin: originChecker.Check}

	router := NewRouter(logger, healthHandler, stateHandler, joinHandler, sayHandler, startHandler)

	mainRouter := mux.NewRouter()
	NewRESTServer(logger, healthHandler, stateHandler, joinHandler, sayHandler, startHandler).Register(mainRouter)
	NewEventStreamServer(logger, r, time.Minute).Register(mainRouter)
	NewWebSocketServer(logger, upgrader, r, router, time.Minute).Register(mainRouter)

	server := httptest.NewServer(originChecker.CORS(mainRouter))
	t.Cleanup(server.Close)

	return &testRelayServer{
		relay:  r,
		server: server,
	}
}
