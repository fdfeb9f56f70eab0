package crawler

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// SearchController walks numbered result pages of a paginated search
// endpoint, harvesting each result item and its directly linked files. Its
// traversal is exactly two levels deep by construction (search page → item
// → files); page enumeration is driven by a page counter, not graph
// recursion.
type SearchController struct {
	cfg    Config
	engine *Engine
	pauser pauseController
	logger *zap.Logger
}

// NewSearchController builds the paginated-search driver on top of the
// engine's capture pipeline.
func NewSearchController(cfg Config, engine *Engine, logger *zap.Logger) *SearchController {
	return &SearchController{
		cfg:    cfg,
		engine: engine,
		pauser: timerPauseController{},
		logger: logger,
	}
}

// CrawlRoot enumerates result pages starting at page 1 and stops when a
// page is unreachable, when a page yields zero new item links, or when the
// item quota is reached. Item and file failures are recorded and never stop
// enumeration.
func (c *SearchController) CrawlRoot(ctx context.Context, brain, searchURL string) (RootSummary, error) {
	parsed, err := url.Parse(searchURL)
	if err != nil {
		return RootSummary{}, fmt.Errorf("parse search url: %w", err)
	}
	baseQuery := parsed.RawQuery

	var summary RootSummary
	seen := make(map[string]struct{})
	items := 0

	for page := 1; items < c.cfg.Search.MaxItems; page++ {
		if ctx.Err() != nil {
			break
		}
		pageURL := c.pageURL(parsed, baseQuery, page)
		c.logger.Info("Fetching search page",
			zap.String("brain", brain),
			zap.Int("page", page),
			zap.String("url", pageURL),
		)

		res, err := c.engine.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			// Cannot know whether further pages exist; stop the crawl.
			c.logger.Warn("Search page unreachable; stopping",
				zap.Int("page", page),
				zap.Error(err),
			)
			break
		}

		newItems := 0
		for _, itemURL := range c.itemLinks(res) {
			if items >= c.cfg.Search.MaxItems {
				break
			}
			if _, ok := seen[itemURL]; ok {
				continue
			}
			seen[itemURL] = struct{}{}
			newItems++
			items++

			c.processItem(ctx, brain, searchURL, itemURL, &summary)
			c.pauser.Pause(ctx, c.cfg.Delay)
		}

		if newItems == 0 {
			c.logger.Info("No new item links; stopping", zap.Int("page", page))
			break
		}
		c.pauser.Pause(ctx, c.cfg.Delay)
	}

	c.logger.Info("Search crawl finished",
		zap.String("brain", brain),
		zap.String("url", searchURL),
		zap.Int("items", items),
		zap.Int("records", summary.Records),
		zap.Int("failures", summary.Failures),
	)
	return summary, nil
}

func (c *SearchController) pageURL(base *url.URL, baseQuery string, page int) string {
	u := *base
	if baseQuery == "" {
		u.RawQuery = "page=" + strconv.Itoa(page)
	} else {
		u.RawQuery = baseQuery + "&page=" + strconv.Itoa(page)
	}
	return u.String()
}

// itemLinks extracts the result-item links from a search page: same host,
// path under the configured item prefix, sorted for a deterministic visit
// order.
func (c *SearchController) itemLinks(res FetchResult) []string {
	var out []string
	for _, link := range DiscoverLinks(res.Body, res.FinalURL) {
		u, err := url.Parse(link)
		if err != nil {
			continue
		}
		if !SameHost(link, res.FinalURL) {
			continue
		}
		if !strings.HasPrefix(u.Path, c.cfg.Search.ItemPrefix) {
			continue
		}
		out = append(out, link)
	}
	sort.Strings(out)
	return out
}

// processItem fetches one result item and, when it is an HTML page, every
// directly linked document file. Files become child Records carrying the
// item as parent.
func (c *SearchController) processItem(ctx context.Context, brain, rootURL, itemURL string, summary *RootSummary) {
	c.logger.Info("Processing search item", zap.String("url", itemURL))

	task := CrawlTask{Brain: brain, URL: itemURL, RootURL: rootURL, Depth: 1}
	rec, links := c.engine.capture(ctx, task, "")

	if rec.Error == "" && rec.Kind == KindHTML {
		children := 0
		for _, fileURL := range c.fileLinks(links) {
			c.pauser.Pause(ctx, c.cfg.Delay)
			if c.processFile(ctx, brain, rootURL, itemURL, fileURL, summary) {
				children++
			}
		}
		rec.ChildrenCount = children
	}

	c.engine.persist(ctx, rec, summary)
}

// processFile records one attached file. A file already present in the
// store is recorded without refetching, keeping re-runs cheap.
func (c *SearchController) processFile(ctx context.Context, brain, rootURL, itemURL, fileURL string, summary *RootSummary) bool {
	task := CrawlTask{Brain: brain, URL: fileURL, RootURL: rootURL, Depth: 2}

	if rec, ok := c.existingFileRecord(ctx, task, itemURL); ok {
		c.engine.persist(ctx, rec, summary)
		return true
	}

	rec, _ := c.engine.capture(ctx, task, itemURL)
	c.engine.persist(ctx, rec, summary)
	return true
}

// existingFileRecord checks whether the file's deterministic path already
// holds an artifact from a previous run.
func (c *SearchController) existingFileRecord(ctx context.Context, task CrawlTask, itemURL string) (*Record, bool) {
	name := SafeBasename(task.URL)
	ext := extensionOf(task.URL)
	if ext == "" {
		return nil, false
	}
	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	exists, path, err := c.engine.blobs.Exists(ctx, filepath.Join("downloads", name))
	if err != nil || !exists {
		return nil, false
	}

	c.logger.Info("File already downloaded; skipping fetch", zap.String("url", task.URL))
	kind := KindBinary
	if ext == ".pdf" {
		kind = KindPDF
	}
	return &Record{
		RunID:      c.engine.runID,
		Brain:      task.Brain,
		SourceURL:  task.URL,
		RootURL:    task.RootURL,
		ParentURL:  itemURL,
		Depth:      task.Depth,
		Kind:       kind,
		Downloaded: true,
		LocalPath:  path,
		FetchedAt:  c.engine.clock.Now(),
	}, true
}

// fileLinks filters an item page's links down to direct document files,
// deduplicated by DiscoverLinks and sorted for determinism.
func (c *SearchController) fileLinks(links []string) []string {
	var out []string
	for _, link := range links {
		if HasExtension(link, c.cfg.Search.FileExts) {
			out = append(out, link)
		}
	}
	sort.Strings(out)
	return out
}

func extensionOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(u.EscapedPath()))
	return ext
}
