package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "claude-openrouter-proxy"
	keyringUser    = "openrouter-api-key"
)

// KeyringStore persists the key in the OS credential store (macOS Keychain,
// Secret Service on Linux, Windows Credential Manager).
type KeyringStore struct{}

// NewKeyringStore builds a KeyringStore.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func (k *KeyringStore) Read(ctx context.Context) (string, error) {
	value, err := keyring.Get(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read key from OS keyring: %w", err)
	}
	return value, nil
}

func (k *KeyringStore) Write(ctx context.Context, key string) error {
	if key == "" {
		err := keyring.Delete(keyringService, keyringUser)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("clear key from OS keyring: %w", err)
		}
		return nil
	}
	if err := keyring.Set(keyringService, keyringUser, key); err != nil {
		return fmt.Errorf("write key to OS keyring: %w", err)
	}
	return nil
}
