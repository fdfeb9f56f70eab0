// Package memory provides the in-process seed queue.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/lexharvest/lexharvest/internal/crawler"
)

// Queue is a bounded in-memory seed queue with context-aware operations.
// Once closed, Dequeue drains remaining seeds and then reports
// crawler.ErrQueueClosed so workers can exit cleanly.
type Queue struct {
	ch      chan crawler.Seed
	closeMu sync.Mutex
	closed  bool
}

// NewQueue constructs a queue with the provided capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{
		ch: make(chan crawler.Seed, capacity),
	}
}

// Enqueue pushes a seed into the queue or returns if the context ends.
func (q *Queue) Enqueue(ctx context.Context, seed crawler.Seed) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("enqueue canceled: %w", ctx.Err())
	case q.ch <- seed:
		return nil
	}
}

// Dequeue pops the next seed, respecting context cancellation.
func (q *Queue) Dequeue(ctx context.Context) (crawler.Seed, error) {
	select {
	case <-ctx.Done():
		return crawler.Seed{}, fmt.Errorf("dequeue canceled: %w", ctx.Err())
	case seed, ok := <-q.ch:
		if !ok {
			return crawler.Seed{}, crawler.ErrQueueClosed
		}
		return seed, nil
	}
}

// Close marks the queue complete. Seeds already enqueued remain
// dequeueable.
func (q *Queue) Close() {
	q.closeMu.Lock()
	defer q.closeMu.Unlock()
	if q.closed {
		return
	}
	close(q.ch)
	q.closed = true
}
