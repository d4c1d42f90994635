package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/mkaymak/claude-openrouter-proxy/internal/config"
	"github.com/mkaymak/claude-openrouter-proxy/internal/tokenstore"
)

// authCommand returns the 'auth' subcommand for managing the stored
// OpenRouter API key.
func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the stored OpenRouter API key",
		Commands: []*cli.Command{
			authLoginCommand(),
			authLogoutCommand(),
			authStatusCommand(),
		},
	}
}

func authLoginCommand() *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Store an OpenRouter API key",
		Action: authLoginAction,
	}
}

func authLogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Clear the stored OpenRouter API key",
		Action: authLogoutAction,
	}
}

func authStatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Report whether an OpenRouter API key is stored",
		Action: authStatusAction,
	}
}

func authLoginAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Credential.Storage == string(tokenstore.TypeEnv) {
		return fmt.Errorf("cannot login with env storage (read-only); configure file or keyring storage")
	}

	store, err := cfg.Credential.NewStore()
	if err != nil {
		return fmt.Errorf("failed to build credential store: %w", err)
	}

	key, err := readSecureInput(ctx, "Enter OpenRouter API key: ")
	if err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("api key cannot be empty")
	}

	if err := store.Write(ctx, key); err != nil {
		return fmt.Errorf("failed to write api key: %w", err)
	}

	fmt.Println()
	fmt.Println("=== Login Successful ===")
	fmt.Println("API key saved to configured storage")

	return nil
}

func authLogoutAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Credential.Storage == string(tokenstore.TypeEnv) {
		return fmt.Errorf("cannot logout with env storage (read-only); configure file or keyring storage")
	}

	store, err := cfg.Credential.NewStore()
	if err != nil {
		return fmt.Errorf("failed to build credential store: %w", err)
	}

	if err := store.Write(ctx, ""); err != nil {
		return fmt.Errorf("failed to clear api key: %w", err)
	}

	fmt.Println()
	fmt.Println("=== Logout Successful ===")
	fmt.Println("Credential cleared from configured storage")

	return nil
}

func authStatusAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := cfg.Credential.NewStore()
	if err != nil {
		return fmt.Errorf("failed to build credential store: %w", err)
	}

	key, err := store.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stored api key: %w", err)
	}

	if key == "" {
		fmt.Printf("no api key stored (%s)\n", cfg.Credential.Storage)
		return nil
	}
	fmt.Printf("api key stored (%s), ending in ...%s\n", cfg.Credential.Storage, lastN(key, 4))
	return nil
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// readSecureInput reads user input with hidden display and context
// cancellation support. The goroutine+select pattern is needed because
// term.ReadPassword has no native context support.
func readSecureInput(ctx context.Context, prompt string) (string, error) {
	fmt.Print(prompt)
	defer fmt.Println()

	type result struct {
		value string
		err   error
	}
	resultCh := make(chan result, 1)

	go func() {
		inputBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		resultCh <- result{value: string(inputBytes), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-resultCh:
		if res.err != nil {
			return "", fmt.Errorf("failed to read input: %w", res.err)
		}
		return res.value, nil
	}
}
