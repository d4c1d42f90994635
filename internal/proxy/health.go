package proxy

import "net/http"

// ReadinessChecker reports whether the application is ready to serve
// traffic, e.g. once the model registry's first fetch has resolved.
type ReadinessChecker interface {
	IsReady() bool
}

// rootHandler is the unauthenticated root health check: status, service
// name, and version, for monitoring and debugging.
func rootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, map[string]string{
			"status":  "ok",
			"service": "claude-openrouter-proxy",
			"version": "1.0.0",
		}, http.StatusOK)
	}
}

// livenessHandler handles liveness probe requests.
// Always returns 200 OK to indicate the process is alive.
func livenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
	}
}

// readinessHandler handles readiness probe requests.
// Returns 200 OK if the application is ready to serve traffic, 503 otherwise.
func readinessHandler(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		if checker.IsReady() {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
}
