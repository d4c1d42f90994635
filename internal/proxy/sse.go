package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// SSEWriter writes a sequence of server-sent events to an http.ResponseWriter,
// flushing after every write so the client sees events as they're produced.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter prepares w for SSE output: sets the event-stream headers and
// returns an error if the underlying ResponseWriter doesn't support
// flushing (required for incremental delivery).
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support flushing")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent writes one named event whose data is the JSON encoding of data.
func (s *SSEWriter) WriteEvent(eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "event: %s\n", eventType)
	fmt.Fprintf(&buf, "data: %s\n\n", payload)

	if _, err := s.w.Write(buf.Bytes()); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteErrorFrame writes a single bare data-only frame, matching the
// upstream-error contract: no event name, one JSON object under "error".
func (s *SSEWriter) WriteErrorFrame(message string) error {
	payload, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return fmt.Errorf("encode error frame: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
