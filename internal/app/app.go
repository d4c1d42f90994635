package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/mkaymak/claude-openrouter-proxy/internal/config"
	"github.com/mkaymak/claude-openrouter-proxy/internal/proxy"
)

// App orchestrates the lifecycle of the proxy server and its supporting
// services: credential resolution, model registry refresh, and the HTTP
// listener itself.
type App struct {
	cfg    *config.Config
	proxy  *proxy.Proxy
	health *Health
}

// New builds an App from cfg. The upstream API key is resolved from
// cfg.Upstream.APIKey if set, else from the credential store cfg.Credential
// selects.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	apiKey := cfg.Upstream.APIKey
	if apiKey == "" {
		store, err := cfg.Credential.NewStore()
		if err != nil {
			return nil, fmt.Errorf("build credential store: %w", err)
		}
		apiKey, err = store.Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("read stored credential: %w", err)
		}
	}

	health := NewHealth()

	proxyServer := proxy.New(proxy.Config{
		UpstreamBaseURL:   cfg.Upstream.BaseURL,
		UpstreamAPIKey:    apiKey,
		ModelOverride:     cfg.Upstream.ModelOverride,
		Logger:            slog.Default(),
		Readiness:         health,
		RequestsPerSecond: 0,
	})

	return &App{cfg: cfg, proxy: proxyServer, health: health}, nil
}

// Start refreshes the model registry, then serves HTTP traffic until ctx is
// cancelled, shutting down gracefully.
func (a *App) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	slog.InfoContext(gCtx, "refreshing model registry")
	if err := a.proxy.Refresh(gCtx, http.DefaultTransport); err != nil {
		return fmt.Errorf("initial model registry refresh failed: %w", err)
	}
	a.health.SetReady(true)

	addr := net.JoinHostPort(a.cfg.Bind.Host, strconv.Itoa(a.cfg.Bind.Port))
	g.Go(func() error {
		slog.InfoContext(gCtx, "starting proxy server", "addr", addr)
		err := a.proxy.Start(gCtx, addr)
		a.health.SetReady(false)
		return err
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("proxy: %w", err)
	}

	slog.Info("application stopped")
	return nil
}
