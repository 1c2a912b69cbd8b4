package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenRepository stores the session token in a single file readable only by its owner.
type TokenRepository struct {
	path string
}

// NewTokenRepository returns a repository writing to path. Parent directories are created on save.
func NewTokenRepository(path string) *TokenRepository {
	return &TokenRepository{path: path}
}

// Load returns the stored token, or "" when the file does not exist.
func (r *TokenRepository) Load(context.Context) (string, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file %s: %w", r.path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save replaces the stored token atomically.
func (r *TokenRepository) Save(_ context.Context, token string) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(token); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close token file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace token file %s: %w", r.path, err)
	}
	return nil
}

// Delete removes the token file. A missing file is not an error.
func (r *TokenRepository) Delete(context.Context) error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file %s: %w", r.path, err)
	}
	return nil
}
