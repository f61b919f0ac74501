package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goevery/playerrelay/internal/ierr"
	"github.com/goevery/playerrelay/internal/upstream"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(v)
}

// writeError answers with the error's status and a {"error": message} body.
// Internal details only go to the log.
func writeError(logger *zap.Logger, w http.ResponseWriter, err error) {
	status := ierr.HTTPStatus(err)

	message := http.StatusText(status)

	var handlerErr ierr.Error
	if errors.As(err, &handlerErr) && status != http.StatusInternalServerError {
		message = handlerErr.Message
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}

	if err := writeJSON(w, status, ErrorResponse{Error: message}); err != nil {
		logger.Warn("failed to write error response", zap.Error(err))
	}
}

// writeActionResponse relays an MJ response verbatim.
func writeActionResponse(logger *zap.Logger, w http.ResponseWriter, resp upstream.ActionResponse) {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}

	w.WriteHeader(resp.StatusCode)

	if _, err := w.Write(resp.Body); err != nil {
		logger.Warn("failed to relay upstream response", zap.Error(err))
	}
}
