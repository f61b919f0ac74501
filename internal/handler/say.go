package handler

import (
	"context"
	"strings"

	"github.com/goevery/playerrelay/internal/ierr"
	"github.com/goevery/playerrelay/internal/upstream"
)

type SayRequest struct {
	Text string `json:"text" validate:"required"`
}

type SayHandlerInterface interface {
	Handle(ctx context.Context, req SayRequest) (upstream.ActionResponse, error)
}

// SayHandler posts a chat line to the MJ. Nothing reaches the MJ when the
// text is blank.
type SayHandler struct {
	requestValidator *RequestValidator
	actionClient     ActionClient
}

func NewSayHandler(
	requestValidator *RequestValidator,
	actionClient ActionClient,
) *SayHandler {
	return &SayHandler{
		requestValidator,
		actionClient,
	}
}

func (h *SayHandler) Handle(ctx context.Context, req SayRequest) (upstream.ActionResponse, error) {
	req.Text = strings.TrimSpace(req.Text)

	err := h.requestValidator.Validate(req)
	if err != nil {
		return upstream.ActionResponse{}, err
	}

	resp, err := h.actionClient.Chat(ctx, req.Text)
	if err != nil {
		return upstream.ActionResponse{}, ierr.WithMessage(ierr.ErrorCodeUnavailable, "say proxy error", err)
	}

	return resp, nil
}
