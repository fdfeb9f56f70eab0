package crawler

import (
	"net/http"
	"time"
)

// ContentKind is the closed classification of a fetched payload. Every
// downstream branch (extraction, storage naming) switches on this value
// exactly once, right after the fetch.
type ContentKind string

// Content kinds produced by Classify.
const (
	KindHTML   ContentKind = "html"
	KindPDF    ContentKind = "pdf"
	KindBinary ContentKind = "binary"
)

// Seed is one (brain, URL) pair pulled from configuration and fed to a
// worker. Brain is the named source category the record logs are keyed by.
type Seed struct {
	Brain string
	URL   string
}

// CrawlTask is the immutable unit of work for the recursive controller.
// Depth increases only when the controller recurses into a discovered link;
// RootURL stays fixed at the depth-0 ancestor and drives same-domain
// filtering.
type CrawlTask struct {
	Brain   string
	URL     string
	RootURL string
	Depth   int
}

// FetchResult is what a Fetcher returns for one GET. FinalURL may differ
// from URL after redirects; classification and link resolution always use
// FinalURL. On a terminal fetch failure StatusCode and ContentType may still
// be populated from the last attempt.
type FetchResult struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Headers     http.Header
	Body        []byte
}

// Record is the persisted outcome of processing exactly one URL. A Record
// is produced once per CrawlTask whether the task succeeded or failed;
// failure only populates Error and leaves content fields empty.
type Record struct {
	RunID           string      `json:"run_id,omitempty"`
	Brain           string      `json:"brain"`
	SourceURL       string      `json:"source_url"`
	RootURL         string      `json:"root_url"`
	FetchedURL      string      `json:"fetched_url,omitempty"`
	ParentURL       string      `json:"parent_url,omitempty"`
	Depth           int         `json:"depth"`
	Kind            ContentKind `json:"kind,omitempty"`
	StatusCode      int         `json:"status_code,omitempty"`
	ContentType     string      `json:"content_type,omitempty"`
	Downloaded      bool        `json:"downloaded"`
	LocalPath       string      `json:"local_path,omitempty"`
	FullTextPath    string      `json:"full_text_path,omitempty"`
	ArticleTextPath string      `json:"article_text_path,omitempty"`
	Title           string      `json:"title,omitempty"`
	Published       string      `json:"published,omitempty"`
	FullText        string      `json:"full_text,omitempty"`
	ArticleText     string      `json:"article_text,omitempty"`
	DiscoveredLinks []string    `json:"discovered_links,omitempty"`
	ChildrenCount   int         `json:"children_count,omitempty"`
	Error           string      `json:"error,omitempty"`
	FetchedAt       time.Time   `json:"fetched_at"`
}

// RootSummary aggregates the outcome of one root crawl for logging and the
// exit summary. Failures are tasks whose Record carries an error; they never
// fail the run.
type RootSummary struct {
	Records  int
	Failures int
}

// Add merges another summary into s.
func (s *RootSummary) Add(other RootSummary) {
	s.Records += other.Records
	s.Failures += other.Failures
}

// HTMLContent holds everything the HTML extractor pulls out of a page.
// Published is empty when no date signal was found; it is the raw tag value
// when a signal was found but could not be parsed.
type HTMLContent struct {
	FullText    string
	ArticleText string
	Title       string
	Published   string
}
