package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists an uploaded object and returns the URL it is served from.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
}

// NewKey returns a unique object key under a date prefix, keeping ext.
func NewKey(ext string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("images/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), ext)
}

// LocalStore writes objects below Dir; they are served under BaseURL.
type LocalStore struct {
	Dir     string
	BaseURL string
}

func (s *LocalStore) Put(ctx context.Context, key, _ string, r io.Reader, _ int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := path.Clean("/" + key)[1:]
	if clean == "" {
		return "", fmt.Errorf("local store: empty key")
	}

	dst := filepath.Join(s.Dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("local store: mkdir: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("local store: create: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("local store: write: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("local store: close: %w", err)
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + clean, nil
}
