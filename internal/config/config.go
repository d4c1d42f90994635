package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mkaymak/claude-openrouter-proxy/internal/tokenstore"
)

// Config is the fully resolved application configuration: defaults,
// overridden by an optional config file, overridden by environment
// variables, in that order.
type Config struct {
	Upstream   Upstream   `koanf:"upstream" validate:"required"`
	Bind       Bind       `koanf:"bind" validate:"required"`
	Log        Log        `koanf:"log" validate:"required"`
	Credential Credential `koanf:"credential" validate:"required"`
}

// Upstream configures the OpenAI-compatible backend requests are translated
// and forwarded to.
type Upstream struct {
	BaseURL       string `koanf:"base_url" validate:"required,url"`
	APIKey        string `koanf:"api_key"`
	ModelOverride string `koanf:"model_override"`
}

// Bind configures the proxy's listen address.
type Bind struct {
	Host string `koanf:"host" validate:"required"`
	Port int    `koanf:"port" validate:"required,min=1,max=65535"`
}

// Log configures the observability layer's log output.
type Log struct {
	Level  string `koanf:"level" validate:"required,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"required,oneof=text json"`
}

// Credential configures where the upstream API key is read from and
// persisted to when not supplied directly via Upstream.APIKey.
type Credential struct {
	Storage  string `koanf:"storage" validate:"required,oneof=env file keyring"`
	FilePath string `koanf:"file_path"`
}

// NewStore builds the tokenstore.Store this Credential configuration
// selects.
func (c Credential) NewStore() (tokenstore.Store, error) {
	switch tokenstore.Type(c.Storage) {
	case tokenstore.TypeEnv:
		return tokenstore.NewEnvStore(os.Getenv("OPENROUTER_API_KEY")), nil
	case tokenstore.TypeFile:
		if c.FilePath == "" {
			return nil, fmt.Errorf("credential.file_path is required for file storage")
		}
		return tokenstore.NewFileStore(c.FilePath), nil
	case tokenstore.TypeKeyring:
		return tokenstore.NewKeyringStore(), nil
	default:
		return nil, fmt.Errorf("unknown credential storage %q", c.Storage)
	}
}

func defaults() map[string]any {
	return map[string]any{
		"upstream.base_url":  "https://openrouter.ai/api/v1",
		"bind.host":          "0.0.0.0",
		"bind.port":          8787,
		"log.level":          "info",
		"log.format":         "text",
		"credential.storage": "env",
	}
}

// Load builds a Config by layering defaults, an optional TOML file at
// configPath (skipped if empty; a path that cannot be loaded is an error),
// and environment variables
// prefixed CLAUDE_OPENROUTER_PROXY_ (double underscore as the nesting
// delimiter, e.g. CLAUDE_OPENROUTER_PROXY_UPSTREAM__API_KEY).
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider(".", env.Opt{
		Prefix: "CLAUDE_OPENROUTER_PROXY_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.TrimPrefix(k, "CLAUDE_OPENROUTER_PROXY_")
			k = strings.ToLower(strings.ReplaceAll(k, "__", "."))
			return k, v
		},
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load config from environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
