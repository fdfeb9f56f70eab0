package crawler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractHTMLArticleTag(t *testing.T) {
	body := []byte(`<html><head><title>Treaty Digest</title></head><body>
		<nav>navigation noise</nav>
		<article>The tribunal held that the treaty applies.</article>
		<footer>footer noise</footer>
	</body></html>`)

	content, err := ExtractHTML(body)
	require.NoError(t, err)
	require.Equal(t, "Treaty Digest", content.Title)
	require.Equal(t, "The tribunal held that the treaty applies.", content.ArticleText)
	require.Contains(t, content.FullText, "navigation noise")
	require.Contains(t, content.FullText, "footer noise")
}

func TestExtractHTMLMainTagFallback(t *testing.T) {
	body := []byte(`<html><body>
		<div>sidebar</div>
		<main>Holdings of the court, in full.</main>
	</body></html>`)

	content, err := ExtractHTML(body)
	require.NoError(t, err)
	require.Equal(t, "Holdings of the court, in full.", content.ArticleText)
}

func TestExtractHTMLLargestBlockFallback(t *testing.T) {
	long := strings.Repeat("The statute of limitations tolls during appeal. ", 10)
	body := []byte(fmt.Sprintf(`<html><body>
		<div>short</div>
		<div id="content">%s</div>
	</body></html>`, long))

	content, err := ExtractHTML(body)
	require.NoError(t, err)
	require.Greater(t, len(content.ArticleText), articleMinLength)
	require.Contains(t, content.ArticleText, "statute of limitations")
}

func TestExtractHTMLParagraphFallback(t *testing.T) {
	// No article/main and every block stays under the statistical
	// threshold, so the paragraph concatenation path must win.
	body := []byte(`<html><body><span>x</span><p>first finding</p><p></p><p>second finding</p></body></html>`)
	content, err := ExtractHTML(body)
	require.NoError(t, err)
	require.Equal(t, "first finding\nsecond finding", content.ArticleText)
}

func TestExtractHTMLParagraphFallbackCapped(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < articleParagraphLimit+10; i++ {
		sb.WriteString("<p>a</p>")
	}
	sb.WriteString("</body></html>")

	content, err := ExtractHTML([]byte(sb.String()))
	require.NoError(t, err)
	lines := strings.Split(content.ArticleText, "\n")
	require.Len(t, lines, articleParagraphLimit)
}

func TestExtractHTMLFullTextLastResort(t *testing.T) {
	body := []byte(`<html><body><span>inline only</span></body></html>`)
	content, err := ExtractHTML(body)
	require.NoError(t, err)
	require.Equal(t, content.FullText, content.ArticleText)
	require.Equal(t, "inline only", content.FullText)
}

func TestExtractHTMLStripsScriptAndStyle(t *testing.T) {
	body := []byte(`<html><body>
		<script>var secret = "nope";</script>
		<style>.x { color: red }</style>
		<noscript>enable js</noscript>
		<p>visible text</p>
	</body></html>`)

	content, err := ExtractHTML(body)
	require.NoError(t, err)
	require.NotContains(t, content.FullText, "secret")
	require.NotContains(t, content.FullText, "color")
	require.NotContains(t, content.FullText, "enable js")
	require.Contains(t, content.FullText, "visible text")
}

func TestExtractHTMLPublishedMetaPriority(t *testing.T) {
	body := []byte(`<html><head>
		<meta name="date" content="2021-03-01">
		<meta property="article:published_time" content="2020-01-15T10:30:00Z">
	</head><body><time datetime="2019-01-01">old</time></body></html>`)

	content, err := ExtractHTML(body)
	require.NoError(t, err)
	require.Equal(t, "2020-01-15T10:30:00Z", content.Published)
}

func TestExtractHTMLPublishedTimeElementFallback(t *testing.T) {
	body := []byte(`<html><body><time datetime="2022-06-30T00:00:00Z">June 30, 2022</time></body></html>`)
	content, err := ExtractHTML(body)
	require.NoError(t, err)
	require.Equal(t, "2022-06-30T00:00:00Z", content.Published)
}

func TestExtractHTMLPublishedUnparseableKeepsRaw(t *testing.T) {
	body := []byte(`<html><head><meta name="date" content="circa 1850, disputed"></head><body></body></html>`)
	content, err := ExtractHTML(body)
	require.NoError(t, err)
	require.Equal(t, "circa 1850, disputed", content.Published)
}

func TestExtractHTMLNoDateSignal(t *testing.T) {
	body := []byte(`<html><body><p>undated</p></body></html>`)
	content, err := ExtractHTML(body)
	require.NoError(t, err)
	require.Empty(t, content.Published)
}

func TestFlattenTextCollapsesBlankLines(t *testing.T) {
	body := []byte("<html><body><p>  one  </p>\n\n\n<p>two</p></body></html>")
	content, err := ExtractHTML(body)
	require.NoError(t, err)
	require.Equal(t, "one\ntwo", content.FullText)
}
