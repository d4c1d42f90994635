package anthropicapi

import (
	"context"
	"iter"
	"net/http"

	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/types"
)

// Adapter defines the contract for transforming a client request in one
// dialect to a provider API call in another, and translating the result
// back. Type parameters let the same contract describe both directions of
// translation (this package only implements Anthropic-in) without tying the
// interface to either dialect's concrete types.
//
// Type parameters:
//   - TRequest:  client-facing request structure
//   - TResponse: client-facing non-streaming response structure
//   - TChunk:    client-facing streaming chunk structure
type Adapter[TRequest, TResponse, TChunk any] interface {
	// ProcessRequest transforms the client request, calls the upstream API,
	// and returns the transformed response. Implementations are stateless.
	ProcessRequest(ctx context.Context, clientReq TRequest, transport http.RoundTripper) (*TResponse, error)

	// ProcessStreamingRequest transforms the client request, calls the
	// upstream streaming API, and returns an iterator of transformed chunks.
	ProcessStreamingRequest(ctx context.Context, clientReq TRequest, transport http.RoundTripper) (iter.Seq2[*TChunk, error], error)
}

// Type aliases for the Messages operation: Anthropic-dialect request/
// response/chunk shapes translated against an OpenAI-compatible upstream.
type (
	MessagesRequest  = types.MessagesRequest
	MessagesResponse = types.MessagesResponse
	MessagesChunk    = types.StreamEvent

	MessagesAdapter = Adapter[MessagesRequest, MessagesResponse, MessagesChunk]
)

// Error types surfaced to the HTTP layer.
type (
	ErrorResponse = types.ErrorResponse
	ErrorDetail   = types.ErrorDetail
)
