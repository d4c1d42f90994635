package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi"
	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/openrouter"
)

// MessagesHandler handles POST /v1/messages: Anthropic-dialect requests
// translated to and from an OpenAI-compatible upstream, streaming or not per
// the request body's stream flag.
type MessagesHandler struct {
	Adapter   anthropicapi.MessagesAdapter
	Transport http.RoundTripper

	// UpstreamAPIKey, when set, is used for every request regardless of
	// client-supplied credentials (the "env credential" priority tier).
	UpstreamAPIKey string
}

var _ http.Handler = (*MessagesHandler)(nil)

func (h *MessagesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	apiKey := h.resolveAPIKey(r)
	if apiKey == "" {
		writeAnthropicError(ctx, w, http.StatusUnauthorized, "API key required")
		return
	}
	ctx = openrouter.WithAPIKey(ctx, apiKey)

	var req anthropicapi.MessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeAnthropicError(ctx, w, http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge))
			return
		}
		slog.ErrorContext(ctx, "failed to decode request", "error", err)
		writeAnthropicError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Stream != nil && *req.Stream {
		h.streamResponse(ctx, w, req)
	} else {
		h.writeResponse(ctx, w, req)
	}
}

func (h *MessagesHandler) resolveAPIKey(r *http.Request) string {
	if h.UpstreamAPIKey != "" {
		return h.UpstreamAPIKey
	}
	if key := r.Header.Get("X-Api-Key"); key != "" {
		return key
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func (h *MessagesHandler) writeResponse(ctx context.Context, w http.ResponseWriter, req anthropicapi.MessagesRequest) {
	if ctx.Err() != nil {
		return
	}

	resp, err := h.Adapter.ProcessRequest(ctx, req, h.Transport)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, resp, http.StatusOK)
}

func (h *MessagesHandler) streamResponse(ctx context.Context, w http.ResponseWriter, req anthropicapi.MessagesRequest) {
	if ctx.Err() != nil {
		return
	}

	stream, err := h.Adapter.ProcessStreamingRequest(ctx, req, h.Transport)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		slog.ErrorContext(ctx, "SSE not supported", "error", err)
		writeAnthropicError(ctx, w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	for event, err := range stream {
		if ctx.Err() != nil {
			slog.DebugContext(ctx, "client disconnected during stream")
			return
		}
		if err != nil {
			var upstreamErr *openrouter.UpstreamError
			if errors.As(err, &upstreamErr) {
				if writeErr := sse.WriteErrorFrame(upstreamErr.Body); writeErr != nil {
					slog.ErrorContext(ctx, "failed to write upstream error frame", "error", writeErr)
				}
				return
			}
			slog.ErrorContext(ctx, "stream error", "error", err)
			if writeErr := sse.WriteErrorFrame(err.Error()); writeErr != nil {
				slog.ErrorContext(ctx, "failed to write error frame", "error", writeErr)
			}
			return
		}

		if writeErr := sse.WriteEvent(event.Type, event); writeErr != nil {
			slog.ErrorContext(ctx, "failed to write event", "error", writeErr)
			return
		}
	}
}

func (h *MessagesHandler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	slog.ErrorContext(ctx, "request failed", "error", err)

	var upstreamErr *openrouter.UpstreamError
	if errors.As(err, &upstreamErr) {
		writeAnthropicError(ctx, w, upstreamErr.StatusCode, upstreamErr.Body)
		return
	}

	writeAnthropicError(ctx, w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
