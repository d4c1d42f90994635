package tokenstore

import (
	"context"
	"fmt"
)

// EnvStore is a read-only Store backed by a value captured from the process
// environment at construction time.
type EnvStore struct {
	value string
}

// NewEnvStore wraps value (typically os.Getenv("OPENROUTER_API_KEY")) as a
// Store.
func NewEnvStore(value string) *EnvStore {
	return &EnvStore{value: value}
}

func (e *EnvStore) Read(ctx context.Context) (string, error) {
	return e.value, nil
}

func (e *EnvStore) Write(ctx context.Context, key string) error {
	return fmt.Errorf("cannot write with env storage (read-only); configure file or keyring storage")
}
