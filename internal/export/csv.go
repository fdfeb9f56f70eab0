// Package export renders the tabular run summary from the combined record
// logs.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lexharvest/lexharvest/internal/crawler"
)

// summaryColumns is the fixed column projection of Record fields, one row
// per Record, for human inspection.
var summaryColumns = []string{
	"brain",
	"source_url",
	"fetched_url",
	"kind",
	"status_code",
	"content_type",
	"title",
	"published",
	"downloaded",
	"local_path",
	"full_text_path",
	"article_text_path",
	"depth",
	"children",
	"error",
	"fetched_at",
}

// WriteSummary reads each brain's combined JSONL log under outputDir and
// writes one CSV with a row per Record. Missing brain logs are skipped; a
// brain whose seeds all failed to enqueue simply contributes no rows.
// Returns the number of data rows written.
func WriteSummary(outputDir string, brains []string, outPath string) (int, error) {
	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create summary %s: %w", outPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(summaryColumns); err != nil {
		return 0, fmt.Errorf("write summary header: %w", err)
	}

	rows := 0
	for _, brain := range brains {
		logPath := filepath.Join(outputDir, brain+".jsonl")
		n, err := appendBrain(w, logPath)
		if err != nil {
			return rows, err
		}
		rows += n
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return rows, fmt.Errorf("flush summary: %w", err)
	}
	return rows, nil
}

func appendBrain(w *csv.Writer, logPath string) (int, error) {
	f, err := os.Open(logPath)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open combined log %s: %w", logPath, err)
	}
	defer f.Close()

	rows := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec crawler.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			// A torn line means a crashed writer; skip it rather than
			// abort the whole export.
			continue
		}
		if err := w.Write(row(rec)); err != nil {
			return rows, fmt.Errorf("write summary row: %w", err)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return rows, fmt.Errorf("scan combined log %s: %w", logPath, err)
	}
	return rows, nil
}

func row(rec crawler.Record) []string {
	return []string{
		rec.Brain,
		rec.SourceURL,
		rec.FetchedURL,
		string(rec.Kind),
		formatInt(rec.StatusCode),
		rec.ContentType,
		rec.Title,
		rec.Published,
		strconv.FormatBool(rec.Downloaded),
		rec.LocalPath,
		rec.FullTextPath,
		rec.ArticleTextPath,
		strconv.Itoa(rec.Depth),
		formatInt(rec.ChildrenCount),
		rec.Error,
		rec.FetchedAt.UTC().Format(time.RFC3339),
	}
}

func formatInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
