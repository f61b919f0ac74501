package handler

import (
	"context"
	"encoding/json"

	"github.com/goevery/playerrelay/internal/upstream"
)

// ActionClient forwards player actions to the MJ.
type ActionClient interface {
	Join(ctx context.Context, name json.RawMessage, cls json.RawMessage) (upstream.ActionResponse, error)
	Chat(ctx context.Context, text string) (upstream.ActionResponse, error)
	Start(ctx context.Context) (upstream.ActionResponse, error)
}
