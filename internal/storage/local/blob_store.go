// Package local implements a local filesystem artifact store.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore writes artifacts under a base directory.
type BlobStore struct {
	baseDir string
}

// New creates a filesystem-backed store rooted at baseDir, creating the
// directory if needed.
func New(baseDir string) (*BlobStore, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	info, err := os.Stat(baseDir)
	switch {
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(baseDir, 0o750); mkErr != nil {
			return nil, fmt.Errorf("create base directory: %w", mkErr)
		}
	case err != nil:
		return nil, fmt.Errorf("stat base directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("base directory path %s is not a directory", baseDir)
	}
	return &BlobStore{baseDir: baseDir}, nil
}

// Put writes data at relPath under the base directory and returns the
// absolute path. Existing files are overwritten; paths are deterministic
// per URL so an overwrite replaces the same artifact.
func (s *BlobStore) Put(ctx context.Context, relPath string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context canceled: %w", err)
	}
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("create parent directories: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", fullPath, err)
	}
	return fullPath, nil
}

// Exists reports whether an artifact already exists at relPath and returns
// its absolute path when it does.
func (s *BlobStore) Exists(ctx context.Context, relPath string) (bool, string, error) {
	if err := ctx.Err(); err != nil {
		return false, "", fmt.Errorf("context canceled: %w", err)
	}
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return false, "", err
	}
	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("stat artifact %s: %w", fullPath, err)
	}
	if info.IsDir() {
		return false, "", fmt.Errorf("artifact path %s is a directory", fullPath)
	}
	return true, fullPath, nil
}

// resolve joins relPath onto the base directory and rejects traversal
// outside it.
func (s *BlobStore) resolve(relPath string) (string, error) {
	if strings.TrimSpace(relPath) == "" {
		return "", fmt.Errorf("artifact path is required")
	}
	fullPath := filepath.Clean(filepath.Join(s.baseDir, relPath))
	cleanBase := filepath.Clean(s.baseDir)
	if !strings.HasPrefix(fullPath, cleanBase+string(filepath.Separator)) {
		return "", fmt.Errorf("artifact path %s escapes base directory", relPath)
	}
	return fullPath, nil
}
