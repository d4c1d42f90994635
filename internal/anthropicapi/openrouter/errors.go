package openrouter

import "fmt"

// UpstreamError wraps a non-2xx response from the upstream chat-completions
// API, preserving its status code and raw body for the HTTP layer to embed
// in a structured error envelope.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Body)
}
