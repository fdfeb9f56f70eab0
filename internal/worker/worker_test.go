package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexharvest/lexharvest/internal/crawler"
	queuememory "github.com/lexharvest/lexharvest/internal/queue/memory"
)

type stubController struct {
	mu      sync.Mutex
	seeds   []string
	summary crawler.RootSummary
	err     error
}

func (c *stubController) CrawlRoot(_ context.Context, _, seed string) (crawler.RootSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seeds = append(c.seeds, seed)
	return c.summary, c.err
}

func (c *stubController) seen() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.seeds))
	copy(out, c.seeds)
	return out
}

func searchConfig() crawler.SearchConfig {
	return crawler.SearchConfig{
		Hosts:      []string{"archive.test"},
		Path:       "/search",
		ItemPrefix: "/details/",
		MaxItems:   10,
	}
}

func TestWorkerRoutesSeeds(t *testing.T) {
	engine := &stubController{summary: crawler.RootSummary{Records: 2}}
	search := &stubController{summary: crawler.RootSummary{Records: 5, Failures: 1}}

	q := queuememory.NewQueue(4)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, crawler.Seed{Brain: "case_law", URL: "https://example.com/cases"}))
	require.NoError(t, q.Enqueue(ctx, crawler.Seed{Brain: "treaties", URL: "https://archive.test/search?q=treaty"}))
	q.Close()

	w := New(q, engine, search, searchConfig(), zap.NewNop())
	w.Run(ctx)

	require.Equal(t, []string{"https://example.com/cases"}, engine.seen())
	require.Equal(t, []string{"https://archive.test/search?q=treaty"}, search.seen())

	total := w.Summary()
	require.Equal(t, 7, total.Records)
	require.Equal(t, 1, total.Failures)
}

func TestWorkerStopsOnQueueClose(t *testing.T) {
	q := queuememory.NewQueue(1)
	q.Close()

	w := New(q, &stubController{}, &stubController{}, searchConfig(), zap.NewNop())
	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()
	<-done
}

func TestWorkerSkipsSummaryOnError(t *testing.T) {
	engine := &stubController{
		summary: crawler.RootSummary{Records: 9},
		err:     errors.New("bad seed"),
	}

	q := queuememory.NewQueue(1)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, crawler.Seed{Brain: "case_law", URL: "https://example.com/cases"}))
	q.Close()

	w := New(q, engine, &stubController{}, searchConfig(), zap.NewNop())
	w.Run(ctx)
	require.Zero(t, w.Summary().Records)
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	q := queuememory.NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := New(q, &stubController{}, &stubController{}, searchConfig(), zap.NewNop())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	<-done
}
