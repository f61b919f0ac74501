package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/goevery/playerrelay/internal/handler"
	"github.com/goevery/playerrelay/internal/ierr"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxRequestBodySize = 64 << 10

type RESTServer struct {
	logger *zap.Logger

	healthHandler handler.HealthHandlerInterface
	stateHandler  handler.StateHandlerInterface
	joinHandler   handler.JoinHandlerInterface
	sayHandler    handler.SayHandlerInterface
	startHandler  handler.StartHandlerInterface
}

func NewRESTServer(
	logger *zap.Logger,
	healthHandler handler.HealthHandlerInterface,
	stateHandler handler.StateHandlerInterface,
	joinHandler handler.JoinHandlerInterface,
	sayHandler handler.SayHandlerInterface,
	startHandler handler.StartHandlerInterface,
) *RESTServer {
	return &RESTServer{
		logger,
		healthHandler,
		stateHandler,
		joinHandler,
		sayHandler,
		startHandler,
	}
}

func (s *RESTServer) Register(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		s.writeResult(w, s.healthHandler.Handle())
	}).Methods("GET", "OPTIONS")

	router.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		s.writeResult(w, s.stateHandler.Handle())
	}).Methods("GET", "OPTIONS")

	router.HandleFunc("/join", func(w http.ResponseWriter, r *http.Request) {
		var joinRequest handler.JoinRequest
		if err := decodeBody(r, &joinRequest); err != nil {
			writeError(s.logger, w, err)
			return
		}

		resp, err := s.joinHandler.Handle(r.Context(), joinRequest)
		if err != nil {
			writeError(s.logger, w, err)
			return
		}

		writeActionResponse(s.logger, w, resp)
	}).Methods("POST", "OPTIONS")

	router.HandleFunc("/say", func(w http.ResponseWriter, r *http.Request) {
		var sayRequest handler.SayRequest
		if err := decodeBody(r, &sayRequest); err != nil {
			writeError(s.logger, w, err)
			return
		}

		resp, err := s.sayHandler.Handle(r.Context(), sayRequest)
		if err != nil {
			writeError(s.logger, w, err)
			return
		}

		writeActionResponse(s.logger, w, resp)
	}).Methods("POST", "OPTIONS")

	router.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		resp, err := s.startHandler.Handle(r.Context())
		if err != nil {
			writeError(s.logger, w, err)
			return
		}

		writeActionResponse(s.logger, w, resp)
	}).Methods("POST", "OPTIONS")
}

func (s *RESTServer) writeResult(w http.ResponseWriter, result any) {
	if err := writeJSON(w, http.StatusOK, result); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

// decodeBody reads a JSON request body into v. An empty body leaves v
// untouched; the handlers' validation decides whether that is acceptable.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize)).Decode(v)
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return nil
	}

	return ierr.WithMessage(ierr.ErrorCodeInvalidArgument, "invalid request body", err)
}
