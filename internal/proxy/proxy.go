package proxy

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/openrouter"
	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/types"
	obsmw "github.com/mkaymak/claude-openrouter-proxy/internal/observability/middleware"
)

// maxRequestBytes bounds the size of an inbound /v1/messages body.
const maxRequestBytes = 10 << 20 // 10 MiB

// Config carries everything Proxy needs to wire its routes.
type Config struct {
	UpstreamBaseURL string
	UpstreamAPIKey  string
	ModelOverride   string
	Transport       http.RoundTripper
	Logger          *slog.Logger
	Readiness       ReadinessChecker
	// RequestsPerSecond and Burst configure the outbound rate limiter guarding
	// /v1/messages. Zero RequestsPerSecond disables rate limiting.
	RequestsPerSecond float64
	Burst             int
}

// Proxy serves the Anthropic-dialect HTTP surface, translating to and from
// an OpenAI-compatible upstream.
type Proxy struct {
	handler  http.Handler
	registry *openrouter.Registry
	server   *http.Server
}

// New builds a Proxy from cfg. The model registry is constructed but not yet
// populated; call Refresh before serving traffic.
func New(cfg Config) *Proxy {
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}

	registry := openrouter.NewRegistry(cfg.UpstreamBaseURL, cfg.UpstreamAPIKey)
	resolver := openrouter.NewResolver(registry, cfg.ModelOverride)
	client := openrouter.NewClient(cfg.UpstreamBaseURL)
	adapter := openrouter.NewAdapter(registry, resolver, client)

	router := chi.NewRouter()
	router.Use(obsmw.RequestIDGeneration)
	router.Use(obsmw.TraceContextExtraction)
	if cfg.Logger != nil {
		router.Use(obsmw.Logging(cfg.Logger))
	}
	router.Use(obsmw.RequestIDPropagation)
	router.Use(Recovery)

	router.Get("/", rootHandler())
	router.Get("/healthz", livenessHandler())
	router.Get("/readyz", readinessHandler(cfg.Readiness))
	router.Get("/v1/models", (&ModelsHandler{
		BaseURL:        cfg.UpstreamBaseURL,
		UpstreamAPIKey: cfg.UpstreamAPIKey,
		Transport:      cfg.Transport,
	}).ServeHTTP)
	router.Post("/v1/messages/count_tokens", countTokensHandler(estimateTokensFromBody))

	messagesHandler := applyMiddlewares(
		&MessagesHandler{
			Adapter:        adapter,
			Transport:      cfg.Transport,
			UpstreamAPIKey: cfg.UpstreamAPIKey,
		},
		RequestSizeLimit(maxRequestBytes),
		rateLimitMiddleware(cfg.RequestsPerSecond, cfg.Burst),
	)
	router.Post("/v1/messages", messagesHandler.ServeHTTP)

	return &Proxy{handler: router, registry: registry}
}

// Refresh populates the model registry from the upstream /models endpoint.
// Call once at startup; spec treats a failure here as fatal for the process.
func (p *Proxy) Refresh(ctx context.Context, transport http.RoundTripper) error {
	return p.registry.Refresh(ctx, transport)
}

// Start runs the HTTP server on addr until ctx is cancelled, then shuts down
// gracefully.
func (p *Proxy) Start(ctx context.Context, addr string) error {
	p.server = &http.Server{
		Addr:    addr,
		Handler: p.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return p.server.Shutdown(shutdownCtx)
	}
}

func rateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return RateLimit(rate.NewLimiter(rate.Limit(rps), burst))
}

func estimateTokensFromBody(raw []byte) (int, error) {
	var req types.MessagesRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return 0, err
	}
	return openrouter.EstimateTokens(req), nil
}
