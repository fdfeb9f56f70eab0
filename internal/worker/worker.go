// Package worker implements the per-seed execution loop.
package worker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/lexharvest/lexharvest/internal/crawler"
)

// RootCrawler runs one seed URL to completion.
type RootCrawler interface {
	CrawlRoot(ctx context.Context, brain, seed string) (crawler.RootSummary, error)
}

// Worker consumes seeds from the queue and routes each to the recursive
// engine or the paginated-search controller. Each seed runs to completion
// with its own visited set; workers share nothing but the record sink.
type Worker struct {
	queue  crawler.SeedQueue
	engine RootCrawler
	search RootCrawler
	cfg    crawler.SearchConfig
	logger *zap.Logger

	summary crawler.RootSummary
}

// New constructs a Worker.
func New(
	queue crawler.SeedQueue,
	engine RootCrawler,
	search RootCrawler,
	cfg crawler.SearchConfig,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		queue:  queue,
		engine: engine,
		search: search,
		cfg:    cfg,
		logger: logger,
	}
}

// Run blocks, consuming seeds until the queue closes or the context ends.
func (w *Worker) Run(ctx context.Context) {
	for {
		seed, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, crawler.ErrQueueClosed) || ctx.Err() != nil {
				return
			}
			w.logger.Error("Seed dequeue failed", zap.Error(err))
			continue
		}
		w.runSeed(ctx, seed)
	}
}

// Summary reports the totals accumulated by this worker. Valid after Run
// returns.
func (w *Worker) Summary() crawler.RootSummary {
	return w.summary
}

func (w *Worker) runSeed(ctx context.Context, seed crawler.Seed) {
	controller := w.engine
	kind := "recursive"
	if crawler.IsSearchURL(w.cfg, seed.URL) {
		controller = w.search
		kind = "search"
	}

	w.logger.Info("Starting seed",
		zap.String("brain", seed.Brain),
		zap.String("url", seed.URL),
		zap.String("controller", kind),
	)

	summary, err := controller.CrawlRoot(ctx, seed.Brain, seed.URL)
	if err != nil {
		w.logger.Error("Seed crawl failed",
			zap.String("brain", seed.Brain),
			zap.String("url", seed.URL),
			zap.Error(err),
		)
		return
	}
	w.summary.Add(summary)
}
