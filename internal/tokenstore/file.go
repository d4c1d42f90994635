package tokenstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists the key as the sole contents of a file, created with
// 0600 permissions since it carries a bearer credential.
type FileStore struct {
	path string
}

// NewFileStore builds a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Read(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (f *FileStore) Write(ctx context.Context, key string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create token file directory: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(key), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}
