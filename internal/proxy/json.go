package proxy

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi"
)

// writeJSON writes a JSON response with the given status code. Headers and
// status are written before encoding to avoid buffering a potentially large
// body; if encoding itself fails, the client may receive a partial body.
func writeJSON(ctx context.Context, w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.ErrorContext(ctx, "failed to encode JSON response", "error", err)
	}
}

// writeAnthropicError writes an Anthropic-style {"error":{"message"}} body
// with the given HTTP status.
func writeAnthropicError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeJSON(ctx, w, &anthropicapi.ErrorResponse{
		Err: anthropicapi.ErrorDetail{Message: message},
	}, status)
}
