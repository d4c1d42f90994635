package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type staticReadiness bool

func (s staticReadiness) IsReady() bool { return bool(s) }

func TestRootHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	rootHandler()(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "claude-openrouter-proxy")
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	livenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	readinessHandler(staticReadiness(true))(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	readinessHandler(staticReadiness(false))(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
