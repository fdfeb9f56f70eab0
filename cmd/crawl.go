// Package cmd defines and implements the CLI commands for the lexharvest
// executable.
package cmd

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lexharvest/lexharvest/internal/crawler"
	"github.com/lexharvest/lexharvest/internal/export"
	"github.com/lexharvest/lexharvest/internal/id/runid"
	"github.com/lexharvest/lexharvest/internal/logging"
	queuememory "github.com/lexharvest/lexharvest/internal/queue/memory"
	"github.com/lexharvest/lexharvest/internal/storage/local"
	"github.com/lexharvest/lexharvest/internal/worker"
)

// newCrawlCmd creates and configures the 'crawl' subcommand, which runs
// every configured brain's seeds to completion.
func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Harvests every configured seed URL",
		Long: `Runs the full harvest: each seed URL from the configured brains is
crawled to completion. Individual fetch or extraction failures are captured
in records; the run exits successfully once the seed list is exhausted.`,
		RunE: runCrawlCommand,
	}
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := crawler.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load crawler config: %w", err)
	}
	logger := logging.L

	id, err := runid.New()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}

	blobs, err := local.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("init artifact store: %w", err)
	}
	sink, err := crawler.NewFileSystemSink(cfg.OutputDir, logger)
	if err != nil {
		return fmt.Errorf("init record sink: %w", err)
	}
	fetcher, err := crawler.NewCollyFetcher(cfg, crawler.NewExponentialRetryPolicy(cfg.MaxRetries), logger)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	engine := crawler.NewEngine(cfg, fetcher, sink, blobs, crawler.SystemClock(), id, logger)
	search := crawler.NewSearchController(cfg, engine, logger)

	ctx := cmd.Context()
	queue := queuememory.NewQueue(cfg.QueueDepth)

	workers := make([]*worker.Worker, 0, cfg.Concurrency)
	for i := 0; i < cfg.Concurrency; i++ {
		workers = append(workers, worker.New(
			queue,
			engine,
			search,
			cfg.Search,
			logger.Named("worker").With(zap.Int("index", i)),
		))
	}

	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w *worker.Worker) {
			defer wg.Done()
			w.Run(ctx)
		}(w)
	}

	seeds := cfg.Seeds()
	logger.Info("Starting harvest",
		zap.String("run_id", id),
		zap.Int("seeds", len(seeds)),
		zap.Int("workers", cfg.Concurrency),
	)
	for _, seed := range seeds {
		if err := queue.Enqueue(ctx, seed); err != nil {
			logger.Warn("Failed to enqueue seed",
				zap.String("brain", seed.Brain),
				zap.String("url", seed.URL),
				zap.Error(err),
			)
			break
		}
	}
	queue.Close()
	wg.Wait()

	var total crawler.RootSummary
	for _, w := range workers {
		total.Add(w.Summary())
	}
	logger.Info("Harvest finished",
		zap.String("run_id", id),
		zap.Int("records", total.Records),
		zap.Int("failures", total.Failures),
	)

	return writeSummary(cfg, logger)
}

func writeSummary(cfg crawler.Config, logger *zap.Logger) error {
	csvPath := filepath.Join(cfg.OutputDir, viper.GetString("export.summary_csv"))
	rows, err := export.WriteSummary(cfg.OutputDir, cfg.BrainNames(), csvPath)
	if err != nil {
		return fmt.Errorf("write summary csv: %w", err)
	}
	logger.Info("Wrote summary CSV", zap.String("path", csvPath), zap.Int("rows", rows))
	return nil
}
