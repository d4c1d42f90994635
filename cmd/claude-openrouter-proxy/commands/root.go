package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/mkaymak/claude-openrouter-proxy/internal/app"
	"github.com/mkaymak/claude-openrouter-proxy/internal/config"
	"github.com/mkaymak/claude-openrouter-proxy/internal/observability"
)

// Execute builds and runs the root command tree.
func Execute(ctx context.Context, args []string) error {
	cmd := &cli.Command{
		Name:  "claude-openrouter-proxy",
		Usage: "Translate Anthropic Messages API requests to an OpenRouter-compatible backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a TOML config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
				Value: "text",
			},
		},
		Commands: []*cli.Command{
			startCommand(),
			authCommand(),
		},
	}
	return cmd.Run(ctx, args)
}

func startCommand() *cli.Command {
	return &cli.Command{
		Name:   "start",
		Usage:  "Start the proxy server",
		Action: startAction,
	}
}

func startAction(ctx context.Context, cmd *cli.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	shutdown, err := observability.Instrument(ctx, level, cmd.String("log-format"))
	if err != nil {
		return fmt.Errorf("failed to configure observability: %w", err)
	}
	defer func() {
		shutdownCtx := context.Background()
		if err := shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "observability shutdown failed", "error", err)
		}
	}()

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return application.Start(ctx)
}
