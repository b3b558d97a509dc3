package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes photos below a directory served by the HTTP server.
type LocalStorage struct {
	dir       string
	publicURL string
}

func NewLocalStorage(dir, publicURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{
		dir:       dir,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *LocalStorage) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if filepath.Base(name) != name {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	return s.publicURL + "/" + name, nil
}
