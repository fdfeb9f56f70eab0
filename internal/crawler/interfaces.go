package crawler

import (
	"context"
	"errors"
	"time"
)

// ErrFetchFailed marks a fetch whose retries are exhausted. It is recorded
// on the task's Record, never raised as a fatal condition.
var ErrFetchFailed = errors.New("failed_to_fetch")

// ErrQueueClosed is returned by Dequeue once the seed queue is drained and
// closed; workers treat it as a clean shutdown signal.
var ErrQueueClosed = errors.New("seed queue closed")

// Fetcher performs a single bounded HTTP GET, retries included.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (FetchResult, error)
}

// RetryPolicy decides whether and when a failed fetch attempt is retried.
type RetryPolicy interface {
	ShouldRetry(err error, attempt int) bool
	Backoff(attempt int) time.Duration
}

// RecordSink persists one Record per processed resource. Persist must be
// safe for concurrent callers; appends to the combined log may not
// interleave partial records.
type RecordSink interface {
	Persist(ctx context.Context, rec Record) error
}

// SeedQueue provides enqueue/dequeue semantics for root seeds.
type SeedQueue interface {
	Enqueue(ctx context.Context, seed Seed) error
	Dequeue(ctx context.Context) (Seed, error)
}

// Clock returns the current time (a seam for tests).
type Clock interface {
	Now() time.Time
}
