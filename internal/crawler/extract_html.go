package crawler

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"golang.org/x/net/html"
)

const (
	// articleCandidateLimit bounds how many block elements the statistical
	// fallback inspects.
	articleCandidateLimit = 40
	// articleMinLength is the minimum flattened length for the statistical
	// fallback to win.
	articleMinLength = 200
	// articleParagraphLimit caps the paragraph-concatenation fallback.
	articleParagraphLimit = 50
)

// publishedMetaSelectors are tried in priority order; the first match wins.
var publishedMetaSelectors = []string{
	`meta[property="article:published_time"]`,
	`meta[name="date"]`,
	`meta[name="publication_date"]`,
	`meta[name="pubdate"]`,
}

// ExtractHTML parses markup and produces full-page text, best-effort
// article text, and page metadata. Script, style, and noscript subtrees are
// stripped before any text is flattened.
func ExtractHTML(body []byte) (HTMLContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return HTMLContent{}, fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	content := HTMLContent{
		FullText: flattenText(doc.Selection),
		Title:    strings.TrimSpace(doc.Find("title").First().Text()),
	}
	content.ArticleText = extractArticleText(doc, content.FullText)
	content.Published = extractPublished(doc)
	return content, nil
}

// extractArticleText applies the ordered main-content heuristic: structural
// tags first, then the largest block element, then paragraph concatenation,
// then the full-page text as last resort.
func extractArticleText(doc *goquery.Document, fullText string) string {
	if article := doc.Find("article").First(); article.Length() > 0 {
		return flattenText(article)
	}
	if main := doc.Find("main").First(); main.Length() > 0 {
		return flattenText(main)
	}

	candidates := doc.Find("div, section, article, body")
	if candidates.Length() > articleCandidateLimit {
		candidates = candidates.Slice(0, articleCandidateLimit)
	}
	best := ""
	candidates.Each(func(_ int, sel *goquery.Selection) {
		text := flattenText(sel)
		if len(text) > len(best) {
			best = text
		}
	})
	if len(best) > articleMinLength {
		return best
	}

	var paragraphs []string
	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < articleParagraphLimit
	})
	if len(paragraphs) > 0 {
		return strings.Join(paragraphs, "\n")
	}

	return fullText
}

// extractPublished pulls a publish date from meta tags, then the first
// <time> element. Parseable values are normalized to RFC 3339; otherwise
// the raw tag value is kept.
func extractPublished(doc *goquery.Document) string {
	for _, selector := range publishedMetaSelectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if value := strings.TrimSpace(content); value != "" {
				return normalizeDate(value)
			}
		}
	}

	timeEl := doc.Find("time").First()
	if timeEl.Length() == 0 {
		return ""
	}
	if dt, ok := timeEl.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
		return normalizeDate(strings.TrimSpace(dt))
	}
	if text := strings.TrimSpace(timeEl.Text()); text != "" {
		return normalizeDate(text)
	}
	return ""
}

func normalizeDate(raw string) string {
	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}
	return parsed.UTC().Format(time.RFC3339)
}

// flattenText joins the selection's text nodes with newlines, trimming each
// line and collapsing blank ones.
func flattenText(sel *goquery.Selection) string {
	var sb strings.Builder
	for _, node := range sel.Nodes {
		appendTextNodes(&sb, node)
	}

	lines := strings.Split(sb.String(), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func appendTextNodes(sb *strings.Builder, node *html.Node) {
	if node.Type == html.TextNode {
		sb.WriteString(node.Data)
		sb.WriteString("\n")
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		appendTextNodes(sb, child)
	}
}
