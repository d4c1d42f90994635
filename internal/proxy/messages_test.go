package proxy

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi"
	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/openrouter"
)

type fakeAdapter struct {
	resp       *anthropicapi.MessagesResponse
	respErr    error
	streamErr  error
	chunks     []*anthropicapi.MessagesChunk
	requireKey string
}

func (f *fakeAdapter) ProcessRequest(ctx context.Context, req anthropicapi.MessagesRequest, transport http.RoundTripper) (*anthropicapi.MessagesResponse, error) {
	if f.respErr != nil {
		return nil, f.respErr
	}
	return f.resp, nil
}

func (f *fakeAdapter) ProcessStreamingRequest(ctx context.Context, req anthropicapi.MessagesRequest, transport http.RoundTripper) (iter.Seq2[*anthropicapi.MessagesChunk, error], error) {
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	return func(yield func(*anthropicapi.MessagesChunk, error) bool) {
		for _, c := range f.chunks {
			if !yield(c, nil) {
				return
			}
		}
	}, nil
}

func TestMessagesHandler_NonStreaming(t *testing.T) {
	handler := &MessagesHandler{
		Adapter: &fakeAdapter{resp: &anthropicapi.MessagesResponse{
			ID: "msg_1", Type: "message", Role: "assistant", Model: "m", StopReason: "end_turn",
		}},
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(`{"model":"m","messages":[]}`))
	req.Header.Set("X-Api-Key", "sk-test")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out anthropicapi.MessagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "msg_1", out.ID)
}

func TestMessagesHandler_MissingCredential(t *testing.T) {
	handler := &MessagesHandler{Adapter: &fakeAdapter{}}

	req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(`{"model":"m","messages":[]}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMessagesHandler_BearerTokenFallback(t *testing.T) {
	handler := &MessagesHandler{Adapter: &fakeAdapter{resp: &anthropicapi.MessagesResponse{ID: "msg_2"}}}

	req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(`{"model":"m","messages":[]}`))
	req.Header.Set("Authorization", "Bearer sk-bearer")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMessagesHandler_ConfiguredKeyOverridesClientCredential(t *testing.T) {
	handler := &MessagesHandler{
		Adapter:        &fakeAdapter{resp: &anthropicapi.MessagesResponse{ID: "msg_3"}},
		UpstreamAPIKey: "sk-configured",
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(`{"model":"m","messages":[]}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMessagesHandler_UpstreamErrorSurfacesStatusAndBody(t *testing.T) {
	handler := &MessagesHandler{
		Adapter: &fakeAdapter{respErr: &openrouter.UpstreamError{StatusCode: http.StatusTooManyRequests, Body: "slow down"}},
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(`{"model":"m","messages":[]}`))
	req.Header.Set("X-Api-Key", "sk-test")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Contains(t, rec.Body.String(), "slow down")
}

func TestMessagesHandler_Streaming(t *testing.T) {
	handler := &MessagesHandler{
		Adapter: &fakeAdapter{chunks: []*anthropicapi.MessagesChunk{
			{Type: "message_start"},
			{Type: "message_stop"},
		}},
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(`{"model":"m","messages":[],"stream":true}`))
	req.Header.Set("X-Api-Key", "sk-test")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "event: message_start")
	require.Contains(t, body, "event: message_stop")
}

func TestMessagesHandler_MalformedBody(t *testing.T) {
	handler := &MessagesHandler{Adapter: &fakeAdapter{}}

	req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(`not json`))
	req.Header.Set("X-Api-Key", "sk-test")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
