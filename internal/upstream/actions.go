package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultActionTimeout = 10 * time.Second

	maxActionResponseSize = 1 << 20
)

// ActionResponse is an MJ reply relayed verbatim to the caller.
type ActionResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

type JoinAction struct {
	PlayerId string          `json:"playerId"`
	Name     json.RawMessage `json:"name,omitempty"`
	Cls      json.RawMessage `json:"cls,omitempty"`
}

type ChatAction struct {
	PlayerId string `json:"playerId"`
	Text     string `json:"text"`
}

// ActionClient posts player actions to the MJ on behalf of one player. Any
// status the MJ answers with is a successful call; only transport failures
// are errors.
type ActionClient struct {
	logger     *zap.Logger
	baseURL    string
	playerId   string
	httpClient *http.Client
}

func NewActionClient(logger *zap.Logger, baseURL string, playerId string, timeout time.Duration) *ActionClient {
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}

	return &ActionClient{
		logger:     logger.With(zap.String("playerId", playerId)),
		baseURL:    strings.TrimRight(baseURL, "/"),
		playerId:   playerId,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Join forwards name and cls verbatim; nil fields are left out of the body.
func (c *ActionClient) Join(ctx context.Context, name json.RawMessage, cls json.RawMessage) (ActionResponse, error) {
	return c.post(ctx, "/join", JoinAction{
		PlayerId: c.playerId,
		Name:     name,
		Cls:      cls,
	})
}

func (c *ActionClient) Chat(ctx context.Context, text string) (ActionResponse, error) {
	return c.post(ctx, "/chat", ChatAction{
		PlayerId: c.playerId,
		Text:     text,
	})
}

func (c *ActionClient) Start(ctx context.Context) (ActionResponse, error) {
	return c.post(ctx, "/start", nil)
}

func (c *ActionClient) post(ctx context.Context, path string, body any) (ActionResponse, error) {
	var reader io.Reader = http.NoBody

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return ActionResponse{}, fmt.Errorf("encode %s request: %w", path, err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return ActionResponse{}, fmt.Errorf("build %s request: %w", path, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ActionResponse{}, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxActionResponseSize))
	if err != nil {
		return ActionResponse{}, fmt.Errorf("read %s response: %w", path, err)
	}

	c.logger.Debug("mj action answered",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))

	return ActionResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}
