package handler

import (
	"context"

	"github.com/goevery/playerrelay/internal/ierr"
	"github.com/goevery/playerrelay/internal/upstream"
)

type StartHandlerInterface interface {
	Handle(ctx context.Context) (upstream.ActionResponse, error)
}

type StartHandler struct {
	actionClient ActionClient
}

func NewStartHandler(actionClient ActionClient) *StartHandler {
	return &StartHandler{
		actionClient,
	}
}

func (h *StartHandler) Handle(ctx context.Context) (upstream.ActionResponse, error) {
	resp, err := h.actionClient.Start(ctx)
	if err != nil {
		return upstream.ActionResponse{}, ierr.WithMessage(ierr.ErrorCodeUnavailable, "start proxy error", err)
	}

	return resp, nil
}
