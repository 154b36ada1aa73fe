package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// LocalSharer shares files in place; the reference is a file:// URL.
type LocalSharer struct{}

func NewLocalSharer() *LocalSharer {
	return &LocalSharer{}
}

func (s *LocalSharer) Share(_ context.Context, path, _ string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("failed to share file: %w", err)
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// Unshare is a no-op: the reference points at the export file itself.
func (s *LocalSharer) Unshare(context.Context, string) error {
	return nil
}
