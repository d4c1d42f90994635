package openrouter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeModelsPayload(w io.Writer, models []registryModel) error {
	return json.NewEncoder(w).Encode(modelsPayload{Data: models})
}

func TestRegistry_RefreshPopulatesSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = writeModelsPayload(w, []registryModel{
			{ID: "anthropic/claude-sonnet-4.5", Created: 200, SupportedParameters: []string{"tools", "temperature"}},
		})
	}))
	defer server.Close()

	registry := NewRegistry(server.URL, "test-key")
	require.NoError(t, registry.Refresh(context.Background(), http.DefaultTransport))

	require.True(t, registry.HasModel("anthropic/claude-sonnet-4.5"))
	require.False(t, registry.HasModel("anthropic/claude-opus-4"))

	params, ok := registry.SupportedParams("anthropic/claude-sonnet-4.5")
	require.True(t, ok)
	require.Contains(t, params, "tools")

	_, ok = registry.SupportedParams("unknown/model")
	require.False(t, ok)
}

func TestRegistry_AliasTieBreakPrefersNewest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = writeModelsPayload(w, []registryModel{
			{ID: "anthropic/claude-3-5-sonnet-20240620", Created: 100},
			{ID: "anthropic/claude-sonnet-4.5", Created: 300},
			{ID: "anthropic/claude-3-7-sonnet-20250219", Created: 200},
		})
	}))
	defer server.Close()

	registry := NewRegistry(server.URL, "")
	require.NoError(t, registry.Refresh(context.Background(), http.DefaultTransport))

	id, ok := registry.Alias("sonnet")
	require.True(t, ok)
	require.Equal(t, "anthropic/claude-sonnet-4.5", id)
}

func TestRegistry_ExcludesVariantSuffixes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = writeModelsPayload(w, []registryModel{
			{ID: "anthropic/claude-haiku-4:free", Created: 500},
			{ID: "anthropic/claude-haiku-4", Created: 100},
		})
	}))
	defer server.Close()

	registry := NewRegistry(server.URL, "")
	require.NoError(t, registry.Refresh(context.Background(), http.DefaultTransport))

	id, ok := registry.Alias("haiku")
	require.True(t, ok)
	require.Equal(t, "anthropic/claude-haiku-4", id)
}

func TestRegistry_RefreshFailureLeavesPriorSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	registry := NewRegistry(server.URL, "")
	err := registry.Refresh(context.Background(), http.DefaultTransport)

	require.Error(t, err)
	require.False(t, registry.HasModel("anthropic/claude-sonnet-4.5"))
}

func TestRegistry_EmptyUntilRefreshed(t *testing.T) {
	registry := NewRegistry("https://example.test", "")

	require.False(t, registry.HasModel("anything"))
	_, ok := registry.Alias("sonnet")
	require.False(t, ok)
}
