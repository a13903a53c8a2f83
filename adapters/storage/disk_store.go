// Package storage implements the file store used by the upload proxy.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Kurooo23/AsiqTIX/ports"
)

// DiskStore writes uploads under a local directory and serves them from a
// base URL path. Swapping in an object-storage backend only requires another
// ports.FileStore implementation.
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates a DiskStore rooted at dir, serving files under baseURL.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{
		root:    dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Save writes data to root/path and returns its public URL. Path traversal
// outside the root is rejected.
func (s *DiskStore) Save(ctx context.Context, path string, contentType string, data []byte) (string, error) {
	clean := filepath.Clean("/" + path)
	full := filepath.Join(s.root, clean)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return s.baseURL + filepath.ToSlash(clean), nil
}

// Root returns the directory files are written to, for static serving.
func (s *DiskStore) Root() string {
	return s.root
}

var _ ports.FileStore = (*DiskStore)(nil)
