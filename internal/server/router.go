package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/goevery/playerrelay/internal/handler"
	"github.com/goevery/playerrelay/internal/ierr"
	"github.com/goevery/playerrelay/internal/relay"
	"github.com/goevery/playerrelay/internal/rpc"
	"github.com/goevery/playerrelay/internal/upstream"
	"go.uber.org/zap"
)

// ActionResult is the WebSocket form of a proxied MJ response.
type ActionResult struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

func NewActionResult(resp upstream.ActionResponse) ActionResult {
	body := json.RawMessage(resp.Body)

	if !json.Valid(body) {
		// non-JSON bodies travel as a JSON string
		encoded, _ := json.Marshal(string(resp.Body))
		body = encoded
	}

	return ActionResult{
		Status: resp.StatusCode,
		Body:   body,
	}
}

// Router dispatches requests received on WebSocket channels.
type Router struct {
	logger *zap.Logger

	healthHandler handler.HealthHandlerInterface
	stateHandler  handler.StateHandlerInterface
	joinHandler   handler.JoinHandlerInterface
	sayHandler    handler.SayHandlerInterface
	startHandler  handler.StartHandlerInterface
}

func NewRouter(
	logger *zap.Logger,
	healthHandler handler.HealthHandlerInterface,
	stateHandler handler.StateHandlerInterface,
	joinHandler handler.JoinHandlerInterface,
	sayHandler handler.SayHandlerInterface,
	startHandler handler.StartHandlerInterface,
) *Router {
	return &Router{
		logger,
		healthHandler,
		stateHandler,
		joinHandler,
		sayHandler,
		startHandler,
	}
}

func (r *Router) RouteRequest(ctx context.Context, request rpc.Request) *rpc.Response {
	if channel, ok := relay.ChannelFromContext(ctx); ok {
		r.logger.Debug("request received",
			zap.String("channelId", channel.Id),
			zap.String("method", request.Method))
	}

	response, err := r.Handle(ctx, request)
	if !request.ReplyExpected() {
		if err != nil {
			r.logger.Warn("notification failed",
				zap.String("method", request.Method),
				zap.Error(err))
		}

		return nil
	}

	if err != nil {
		response := request.ReplyWithError(r.mapError(err))

		return &response
	}

	rawJson, err := json.Marshal(response)
	if err != nil {
		response := request.ReplyWithError(r.mapError(err))

		return &response
	}

	payload := json.RawMessage(rawJson)
	reply := request.Reply(&payload)

	return &reply
}

func (r *Router) Handle(ctx context.Context, request rpc.Request) (any, error) {
	switch request.Method {
	case "health":
		return r.healthHandler.Handle(), nil
	case "state":
		return r.stateHandler.Handle(), nil
	case "join":
		var joinReq handler.JoinRequest
		if err := decodeOptionalParams(request.Params, &joinReq); err != nil {
			return nil, err
		}

		return actionResult(r.joinHandler.Handle(ctx, joinReq))
	case "say":
		var sayReq handler.SayRequest
		if err := decodeOptionalParams(request.Params, &sayReq); err != nil {
			return nil, err
		}

		return actionResult(r.sayHandler.Handle(ctx, sayReq))
	case "start":
		return actionResult(r.startHandler.Handle(ctx))
	default:
		return nil, ierr.New(ierr.ErrorCodeNotFound, errors.New("method not found: "+request.Method))
	}
}

func (r *Router) mapError(err error) ierr.Error {
	var handlerErr ierr.Error
	if errors.As(err, &handlerErr) {
		if handlerErr.Code == ierr.ErrorCodeUnavailable {
			r.logger.Error("upstream action failed", zap.Error(err))
		}

		return handlerErr
	}

	r.logger.Error("error in rpc handler", zap.Error(err))

	return ierr.New(ierr.ErrorCodeInternal, errors.New("internal error"))
}

func actionResult(resp upstream.ActionResponse, err error) (any, error) {
	if err != nil {
		return nil, err
	}

	return NewActionResult(resp), nil
}

func decodeParams(params *json.RawMessage, v any) error {
	if params == nil {
		return ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("missing params"))
	}

	if err := json.Unmarshal(*params, v); err != nil {
		return ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("invalid params: "+err.Error()))
	}

	return nil
}

func decodeOptionalParams(params *json.RawMessage, v any) error {
	if params == nil {
		return nil
	}

	return decodeParams(params, v)
}
