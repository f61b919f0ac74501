package handler

import (
	"context"
	"encoding/json"

	"github.com/goevery/playerrelay/internal/ierr"
	"github.com/goevery/playerrelay/internal/upstream"
)

// JoinRequest carries name and cls as raw JSON so they reach the MJ exactly
// as the viewer sent them. Absent fields stay nil and are left out.
type JoinRequest struct {
	Name json.RawMessage `json:"name"`
	Cls  json.RawMessage `json:"cls"`
}

type JoinHandlerInterface interface {
	Handle(ctx context.Context, req JoinRequest) (upstream.ActionResponse, error)
}

type JoinHandler struct {
	actionClient ActionClient
}

func NewJoinHandler(actionClient ActionClient) *JoinHandler {
	return &JoinHandler{
		actionClient,
	}
}

func (h *JoinHandler) Handle(ctx context.Context, req JoinRequest) (upstream.ActionResponse, error) {
	resp, err := h.actionClient.Join(ctx, req.Name, req.Cls)
	if err != nil {
		return upstream.ActionResponse{}, ierr.WithMessage(ierr.ErrorCodeUnavailable, "join proxy error", err)
	}

	return resp, nil
}
