package openrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/types"
)

func TestAdapter_ProcessRequest_RequiresCredential(t *testing.T) {
	registry := NewRegistry("https://example.test", "")
	adapter := NewAdapter(registry, NewResolver(registry, ""), NewClient("https://example.test"))

	_, err := adapter.ProcessRequest(context.Background(), types.MessagesRequest{}, http.DefaultTransport)

	require.Error(t, err)
}

func TestAdapter_ProcessRequest_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi there"}}],"usage":{"prompt_tokens":1,"completion_tokens":2}}`))
	}))
	defer server.Close()

	registry := NewRegistry(server.URL, "")
	adapter := NewAdapter(registry, NewResolver(registry, ""), NewClient(server.URL))

	ctx := WithAPIKey(context.Background(), "sk-test")
	req := types.MessagesRequest{Model: "claude-3-5-sonnet", Messages: []types.Message{
		{Role: "user"},
	}}

	resp, err := adapter.ProcessRequest(ctx, req, http.DefaultTransport)

	require.NoError(t, err)
	require.Equal(t, "hi there", resp.Content[0].Text)
}

func TestAdapter_ProcessRequest_EchoesResolvedModelNotRequestedModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi there"}}]}`))
	}))
	defer server.Close()

	registry := NewRegistry(server.URL, "")
	adapter := NewAdapter(registry, NewResolver(registry, "anthropic/claude-sonnet-4.5"), NewClient(server.URL))

	ctx := WithAPIKey(context.Background(), "sk-test")
	req := types.MessagesRequest{Model: "claude-3-5-sonnet", Messages: []types.Message{
		{Role: "user"},
	}}

	resp, err := adapter.ProcessRequest(ctx, req, http.DefaultTransport)

	require.NoError(t, err)
	require.Equal(t, "anthropic/claude-sonnet-4.5", resp.Model)
	require.NotEqual(t, req.Model, resp.Model)
}

func TestAdapter_ProcessStreamingRequest_UpstreamErrorProducesSingleFrame(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	registry := NewRegistry(server.URL, "")
	adapter := NewAdapter(registry, NewResolver(registry, ""), NewClient(server.URL))

	ctx := WithAPIKey(context.Background(), "sk-test")
	stream, err := adapter.ProcessStreamingRequest(ctx, types.MessagesRequest{Model: "m"}, http.DefaultTransport)
	require.NoError(t, err)

	var gotErr error
	count := 0
	for _, err := range stream {
		count++
		gotErr = err
	}

	require.Equal(t, 1, count)
	require.Error(t, gotErr)
	var upstreamErr *UpstreamError
	require.ErrorAs(t, gotErr, &upstreamErr)
	require.Equal(t, http.StatusTooManyRequests, upstreamErr.StatusCode)
}
