// Package storage defines the artifact store used for raw payloads and
// extracted text files.
package storage

import "context"

// Provider writes crawl artifacts and reports their final location.
// Paths are relative to the provider's root; the same relative path always
// lands in the same place, which keeps repeated runs idempotent.
type Provider interface {
	// Put writes data at the relative path and returns the absolute path.
	Put(ctx context.Context, relPath string, data []byte) (string, error)
	// Exists reports whether an artifact is already present at relPath.
	Exists(ctx context.Context, relPath string) (bool, string, error)
}
