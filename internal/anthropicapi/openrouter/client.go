package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/openrouter/openaiwire"
)

// outboundTimeout bounds both connect and read for a single upstream call,
// matching the 300s ceiling a streamed response may need to fully drain.
const outboundTimeout = 300 * time.Second

// Client calls an OpenAI-compatible chat-completions upstream. The
// credential used to authenticate is supplied per call rather than fixed at
// construction, since it may come from a per-request header rather than a
// statically configured key.
type Client struct {
	baseURL string
}

// NewClient builds a Client for baseURL (no trailing slash).
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

// Complete issues a non-streaming chat-completions call and returns the
// decoded response. A non-2xx upstream status is returned as *UpstreamError.
func (c *Client) Complete(ctx context.Context, apiKey string, req openaiwire.ChatCompletionRequest, transport http.RoundTripper) (*openaiwire.ChatCompletionResponse, error) {
	resp, err := c.do(ctx, apiKey, req, transport)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out openaiwire.ChatCompletionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}
	return &out, nil
}

// Stream issues a streaming chat-completions call and returns the raw HTTP
// response for the caller to read SSE lines from. The caller owns closing
// resp.Body. A non-2xx upstream status is returned unmodified (not as
// *UpstreamError) so the streaming translator can forward its body verbatim
// per the single-error-frame contract.
func (c *Client) Stream(ctx context.Context, apiKey string, req openaiwire.ChatCompletionRequest, transport http.RoundTripper) (*http.Response, error) {
	req.Stream = true
	return c.do(ctx, apiKey, req, transport)
}

func (c *Client) do(ctx context.Context, apiKey string, body openaiwire.ChatCompletionRequest, transport http.RoundTripper) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode upstream request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Transport: transport, Timeout: outboundTimeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call upstream: %w", err)
	}
	return resp, nil
}
