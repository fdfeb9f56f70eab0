package crawler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lexharvest/lexharvest/internal/storage"
)

// binarySkipExtensions is the default blacklist applied to discovered links
// before recursion. PDFs deliberately pass through.
var binarySkipExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".zip", ".exe"}

// Engine is the recursive crawl controller. It owns the visited set for
// each root crawl and drives fetch, classification, extraction, link
// discovery, and record persistence for every task.
type Engine struct {
	cfg     Config
	fetcher Fetcher
	sink    RecordSink
	blobs   storage.Provider
	clock   Clock
	pauser  pauseController
	logger  *zap.Logger
	runID   string
}

// NewEngine constructs the recursive crawl controller.
func NewEngine(
	cfg Config,
	fetcher Fetcher,
	sink RecordSink,
	blobs storage.Provider,
	clock Clock,
	runID string,
	logger *zap.Logger,
) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	skip := cfg.SkipExtensions
	if len(skip) == 0 {
		skip = binarySkipExtensions
	}
	cfg.SkipExtensions = skip
	return &Engine{
		cfg:     cfg,
		fetcher: fetcher,
		sink:    sink,
		blobs:   blobs,
		clock:   clock,
		pauser:  timerPauseController{},
		logger:  logger,
		runID:   runID,
	}
}

// CrawlRoot processes one seed URL to completion with a fresh visited set.
// Individual task failures are captured in Records and never returned as
// errors; the error return covers only a malformed seed.
func (e *Engine) CrawlRoot(ctx context.Context, brain, seed string) (RootSummary, error) {
	if strings.TrimSpace(seed) == "" {
		return RootSummary{}, fmt.Errorf("empty seed URL for brain %q", brain)
	}
	visited := newVisitTracker()
	var summary RootSummary

	e.process(ctx, CrawlTask{Brain: brain, URL: seed, RootURL: seed, Depth: 0}, visited, &summary)

	e.logger.Info("Root crawl finished",
		zap.String("brain", brain),
		zap.String("seed", seed),
		zap.Int("records", summary.Records),
		zap.Int("failures", summary.Failures),
	)
	return summary, nil
}

// process handles one CrawlTask: claim, fetch, extract, recurse, record.
// Exactly one Record is persisted per claimed URL, failure or not. Children
// run sequentially on the shared visited set, so no extra locking is needed
// within a root crawl.
func (e *Engine) process(ctx context.Context, task CrawlTask, visited *visitTracker, summary *RootSummary) *Record {
	key, err := NormalizeURL(task.URL)
	if err != nil || key == "" {
		key = task.URL
	}
	if !visited.MarkIfNew(key) {
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}

	e.logger.Info("Processing URL",
		zap.String("brain", task.Brain),
		zap.Int("depth", task.Depth),
		zap.String("url", task.URL),
	)

	rec, links := e.capture(ctx, task, "")

	if rec.Error == "" && rec.Kind == KindHTML && e.cfg.FollowLinks && task.Depth < e.cfg.MaxDepth {
		children := 0
		for _, link := range capLinks(links, e.cfg.MaxLinksPerPage) {
			if e.cfg.SameDomainOnly && !SameHost(task.RootURL, link) {
				continue
			}
			if HasExtension(link, e.cfg.SkipExtensions) {
				continue
			}
			e.pauser.Pause(ctx, e.cfg.Delay)
			child := CrawlTask{Brain: task.Brain, URL: link, RootURL: task.RootURL, Depth: task.Depth + 1}
			if childRec := e.process(ctx, child, visited, summary); childRec != nil {
				children++
			}
		}
		rec.ChildrenCount = children
	}

	e.persist(ctx, rec, summary)
	return rec
}

// capture runs the non-recursive pipeline for one task: rewrite, fetch,
// classify, persist payload, extract. It does NOT persist the Record; the
// caller does once any children have been accounted for. The returned link
// slice is the full discovered set (only the Record's copy is capped).
func (e *Engine) capture(ctx context.Context, task CrawlTask, parentURL string) (*Record, []string) {
	rec := &Record{
		RunID:     e.runID,
		Brain:     task.Brain,
		SourceURL: task.URL,
		RootURL:   task.RootURL,
		ParentURL: parentURL,
		Depth:     task.Depth,
		FetchedAt: e.clock.Now(),
	}

	res, err := e.fetcher.Fetch(ctx, RewriteURL(task.URL))
	rec.FetchedURL = res.FinalURL
	rec.StatusCode = res.StatusCode
	rec.ContentType = res.ContentType
	if err != nil {
		rec.Error = ErrFetchFailed.Error()
		return rec, nil
	}

	rec.Kind = Classify(res)
	switch rec.Kind {
	case KindPDF:
		e.capturePDF(ctx, rec, res)
		return rec, nil
	case KindHTML:
		return rec, e.captureHTML(ctx, rec, res)
	default:
		e.captureBinary(ctx, rec, res)
		return rec, nil
	}
}

func (e *Engine) capturePDF(ctx context.Context, rec *Record, res FetchResult) {
	name := SafeBasename(res.FinalURL)
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	e.saveRaw(ctx, rec, name, res.Body)

	text, err := ExtractPDF(res.Body)
	if err != nil {
		rec.Error = "extract_failed: " + err.Error()
		return
	}
	rec.FullText = text
	rec.FullTextPath = e.saveText(ctx, rec, name+".txt", text)
}

func (e *Engine) captureHTML(ctx context.Context, rec *Record, res FetchResult) []string {
	name := SafeBasename(res.FinalURL)
	if !strings.HasSuffix(strings.ToLower(name), ".html") {
		name += ".html"
	}
	e.saveRaw(ctx, rec, name, res.Body)

	content, err := ExtractHTML(res.Body)
	if err != nil {
		rec.Error = "extract_failed: " + err.Error()
		return nil
	}
	rec.FullText = content.FullText
	rec.ArticleText = content.ArticleText
	rec.Title = content.Title
	rec.Published = content.Published
	rec.FullTextPath = e.saveText(ctx, rec, name+".txt", content.FullText)
	rec.ArticleTextPath = e.saveText(ctx, rec, name+".article.txt", content.ArticleText)

	links := DiscoverLinks(res.Body, res.FinalURL)
	rec.DiscoveredLinks = capLinks(links, e.cfg.MaxLinksPerPage)
	return links
}

func (e *Engine) captureBinary(ctx context.Context, rec *Record, res FetchResult) {
	name := SafeBasename(res.FinalURL) + ExtensionForContentType(res.ContentType)
	e.saveRaw(ctx, rec, name, res.Body)
}

// saveRaw persists the fetched payload under downloads/. A write failure is
// a PersistenceFailure: recorded on the Record, not raised.
func (e *Engine) saveRaw(ctx context.Context, rec *Record, name string, body []byte) {
	path, err := e.blobs.Put(ctx, filepath.Join("downloads", name), body)
	if err != nil {
		rec.Error = "save_failed: " + err.Error()
		e.logger.Error("Failed to save payload", zap.String("url", rec.SourceURL), zap.Error(err))
		return
	}
	rec.LocalPath = path
	rec.Downloaded = true
}

func (e *Engine) saveText(ctx context.Context, rec *Record, name, text string) string {
	if text == "" {
		return ""
	}
	path, err := e.blobs.Put(ctx, filepath.Join("extracted", name), []byte(text))
	if err != nil {
		rec.Error = "save_failed: " + err.Error()
		e.logger.Error("Failed to save extracted text", zap.String("url", rec.SourceURL), zap.Error(err))
		return ""
	}
	return path
}

func (e *Engine) persist(ctx context.Context, rec *Record, summary *RootSummary) {
	if err := e.sink.Persist(ctx, *rec); err != nil {
		MetricPersistErrors.Inc()
		e.logger.Error("Failed to persist record",
			zap.String("url", rec.SourceURL),
			zap.Error(err),
		)
	}
	summary.Records++
	if rec.Error != "" {
		summary.Failures++
	}
}

func capLinks(links []string, limit int) []string {
	if limit > 0 && len(links) > limit {
		return links[:limit]
	}
	return links
}

type systemClock struct{}

// Now returns the current UTC time.
func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// SystemClock returns the wall-clock implementation of Clock.
func SystemClock() Clock {
	return systemClock{}
}
