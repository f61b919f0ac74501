package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/goevery/playerrelay/internal/handler"
	"github.com/goevery/playerrelay/internal/relay"
	"github.com/goevery/playerrelay/internal/server"
	"github.com/goevery/playerrelay/internal/upstream"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type App struct {
	logger            *zap.Logger
	settings          Settings
	originChecker     *server.OriginChecker
	subscriber        *upstream.Subscriber
	eventStreamServer *server.EventStreamServer
	websocketServer   *server.WebSocketServer
	restServer        *server.RESTServer
}

func NewApp(logger *zap.Logger, settings Settings) *App {
	logger = logger.With(zap.String("playerId", settings.PlayerId))
	mjBaseURL := strings.TrimRight(settings.MJBaseURL, "/")

	originChecker := server.NewOriginChecker(settings.AllowedOrigins)
	websocketUpgrader := &websocket.Upgrader{
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		CheckOrigin:       originChecker.Check,
		EnableCompression: true,
	}

	playerRelay := relay.New(logger, relay.Options{
		ChatCapacity:      settings.ChatHistorySize,
		ChannelBufferSize: settings.ChannelBufferSize,
	})

	subscriber := upstream.NewSubscriber(
		logger,
		mjBaseURL+"/events",
		playerRelay,
		upstream.SubscriberOptions{
			ReconnectDelay: settings.UpstreamReconnectDelay,
		},
	)

	actionClient := upstream.NewActionClient(logger, mjBaseURL, settings.PlayerId, settings.UpstreamTimeout)
	requestValidator := handler.NewRequestValidator()

	healthHandler := handler.NewHealthHandler(settings.PlayerId, mjBaseURL, playerRelay)
	stateHandler := handler.NewStateHandler(playerRelay)
	joinHandler := handler.NewJoinHandler(actionClient)
	sayHandler := handler.NewSayHandler(requestValidator, actionClient)
	startHandler := handler.NewStartHandler(actionClient)

	router := server.NewRouter(
		logger,
		healthHandler,
		stateHandler,
		joinHandler,
		sayHandler,
		startHandler,
	)

	eventStreamServer := server.NewEventStreamServer(
		logger,
		playerRelay,
		settings.KeepAliveInterval,
	)
	websocketServer := server.NewWebSocketServer(
		logger,
		websocketUpgrader,
		playerRelay,
		router,
		settings.KeepAliveInterval,
	)
	restServer := server.NewRESTServer(
		logger,
		healthHandler,
		stateHandler,
		joinHandler,
		sayHandler,
		startHandler,
	)

	return &App{
		logger,
		settings,
		originChecker,
		subscriber,
		eventStreamServer,
		websocketServer,
		restServer,
	}
}

func (a *App) setup(ctx context.Context) error {
	notifyCtx, notifyCtxCancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer notifyCtxCancel()

	subscriberDone := make(chan struct{})

	go func() {
		defer close(subscriberDone)

		err := a.subscriber.Run(notifyCtx)
		if err != nil {
			a.logger.Error("upstream subscriber stopped", zap.Error(err))
		}
	}()

	err := a.startHttpServer(notifyCtx)

	notifyCtxCancel()
	<-subscriberDone

	return err
}

func (a *App) startHttpServer(ctx context.Context) error {
	address := fmt.Sprintf("0.0.0.0:%d", a.settings.Port)

	router := mux.NewRouter()
	if a.settings.BasePath != "" {
		router = router.PathPrefix(a.settings.BasePath).Subrouter()
	}

	a.eventStreamServer.Register(router)
	a.websocketServer.Register(router)
	a.restServer.Register(router)

	httpServer := &http.Server{
		Addr:              address,
		Handler:           a.originChecker.CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	a.logger.Info("starting http server",
		zap.String("address", address),
		zap.String("mj", a.settings.MJBaseURL))

	serveErr := make(chan error, 1)

	go func() {
		err := httpServer.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}

		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	a.logger.Info("stopping http server")

	shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCtxCancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	a.logger.Info("http server stopped")

	return nil
}

func main() {
	ctx := context.Background()

	bootstrapLogger, _ := zap.NewDevelopment()

	var settings Settings
	_, err := env.UnmarshalFromEnviron(&settings)
	if err != nil {
		bootstrapLogger.Fatal("failed to parse settings from environment", zap.Error(err))
	}

	logger, err := buildZapLogger(settings.LogEncoding)
	if err != nil {
		bootstrapLogger.Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	app := NewApp(logger, settings)

	err = app.setup(ctx)
	if err != nil {
		logger.Fatal("failed to run", zap.Error(err))
	}
}
