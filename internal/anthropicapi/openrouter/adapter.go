package openrouter

import (
	"context"
	"fmt"
	"iter"
	"net/http"

	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/types"
)

// apiKeyCtxKey is the context key under which the HTTP layer (via
// WithAPIKey) stores the resolved per-request credential. Adapter pulls it
// from context rather than taking it as a parameter so it satisfies
// anthropicapi.Adapter's signature.
type apiKeyCtxKey struct{}

// WithAPIKey returns a context carrying the credential Adapter should use to
// authenticate its upstream call.
func WithAPIKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, apiKeyCtxKey{}, key)
}

func apiKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(apiKeyCtxKey{}).(string)
	return key
}

// Adapter implements anthropicapi.MessagesAdapter against an OpenRouter-style
// upstream: translate request, call upstream, translate response back.
type Adapter struct {
	Registry *Registry
	Resolver *Resolver
	Client   *Client
}

// NewAdapter builds an Adapter over the given registry, resolver, and
// upstream client.
func NewAdapter(registry *Registry, resolver *Resolver, client *Client) *Adapter {
	return &Adapter{Registry: registry, Resolver: resolver, Client: client}
}

// ProcessRequest translates req, calls the upstream non-streaming endpoint,
// and translates the result back to an Anthropic message.
func (a *Adapter) ProcessRequest(ctx context.Context, req types.MessagesRequest, transport http.RoundTripper) (*types.MessagesResponse, error) {
	apiKey := apiKeyFromContext(ctx)
	if apiKey == "" {
		return nil, fmt.Errorf("no upstream credential in context")
	}

	upstreamReq := TranslateRequest(req, a.Resolver)

	upstreamResp, err := a.Client.Complete(ctx, apiKey, upstreamReq, transport)
	if err != nil {
		return nil, err
	}

	resp := TranslateResponse(*upstreamResp, upstreamReq.Model)
	return &resp, nil
}

// ProcessStreamingRequest translates req, calls the upstream streaming
// endpoint, and returns an iterator of translated Anthropic stream events.
func (a *Adapter) ProcessStreamingRequest(ctx context.Context, req types.MessagesRequest, transport http.RoundTripper) (iter.Seq2[*types.StreamEvent, error], error) {
	apiKey := apiKeyFromContext(ctx)
	if apiKey == "" {
		return nil, fmt.Errorf("no upstream credential in context")
	}

	upstreamReq := TranslateRequest(req, a.Resolver)
	inputTokens := EstimateTokens(req)

	httpResp, err := a.Client.Stream(ctx, apiKey, upstreamReq, transport)
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode/100 != 2 {
		defer httpResp.Body.Close()
		body := readAllString(httpResp.Body)
		return func(yield func(*types.StreamEvent, error) bool) {
			yield(nil, &UpstreamError{StatusCode: httpResp.StatusCode, Body: body})
		}, nil
	}

	inner := TranslateStream(httpResp.Body, upstreamReq.Model, inputTokens)
	return func(yield func(*types.StreamEvent, error) bool) {
		defer httpResp.Body.Close()
		for ev, err := range inner {
			if !yield(ev, err) {
				return
			}
		}
	}, nil
}
