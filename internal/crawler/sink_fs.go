package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileSystemSink persists Records: one JSON document per resource under
// json/, plus an append-only JSONL log per brain. Appends are single
// newline-terminated writes guarded by a mutex, so concurrent workers never
// interleave partial records.
type FileSystemSink struct {
	root   string
	logger *zap.Logger

	mu sync.Mutex
}

// NewFileSystemSink returns a sink rooted at dir, creating the json
// subdirectory eagerly.
func NewFileSystemSink(root string, logger *zap.Logger) (*FileSystemSink, error) {
	if err := os.MkdirAll(filepath.Join(root, "json"), 0o750); err != nil {
		return nil, fmt.Errorf("create sink dir: %w", err)
	}
	return &FileSystemSink{
		root:   root,
		logger: logger,
	}, nil
}

// Persist writes the per-source JSON document and appends the record to the
// brain's combined log. Re-delivery of the same record overwrites the same
// per-source path and appends again, which downstream readers tolerate.
func (s *FileSystemSink) Persist(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}

	if err := s.writeDocument(rec); err != nil {
		return err
	}
	if err := s.appendCombined(rec); err != nil {
		return err
	}
	MetricRecords.Inc()
	return nil
}

func (s *FileSystemSink) writeDocument(rec Record) error {
	source := rec.FetchedURL
	if source == "" {
		source = rec.SourceURL
	}
	target := filepath.Join(s.root, "json", SafeBasename(source)+".json")

	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(target, payload, 0o600); err != nil {
		return fmt.Errorf("write record %s: %w", target, err)
	}
	return nil
}

// appendCombined performs one atomic append of a newline-terminated record.
// The file handle is opened and released per write; the mutex keeps
// concurrent workers from interleaving lines.
func (s *FileSystemSink) appendCombined(rec Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record line: %w", err)
	}
	target := filepath.Join(s.root, rec.Brain+".jsonl")

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(target, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open combined log %s: %w", target, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("Failed to close combined log", zap.Error(cerr))
		}
	}()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append combined log %s: %w", target, err)
	}
	return nil
}
