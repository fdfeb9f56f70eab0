package crawler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscoverLinks(t *testing.T) {
	body := []byte(`<html><body>
		<a href="/relative">rel</a>
		<a href="https://other.test/abs">abs</a>
		<a href="#fragment">frag</a>
		<a href="javascript:void(0)">js</a>
		<a href="JavaScript:alert(1)">js2</a>
		<a href="">empty</a>
		<a href="/relative">dup</a>
		<a href="sibling.html">sib</a>
	</body></html>`)

	links := DiscoverLinks(body, "https://example.com/dir/page.html")
	require.Equal(t, []string{
		"https://example.com/relative",
		"https://other.test/abs",
		"https://example.com/dir/sibling.html",
	}, links)
}

func TestDiscoverLinksResolvesAgainstFinalURL(t *testing.T) {
	// After a redirect the base is the effective URL, so relative links
	// must resolve against where the content actually lives.
	body := []byte(`<a href="doc.pdf">doc</a>`)
	links := DiscoverLinks(body, "https://mirror.example.com/archive/")
	require.Equal(t, []string{"https://mirror.example.com/archive/doc.pdf"}, links)
}

func TestDiscoverLinksNoAnchors(t *testing.T) {
	require.Empty(t, DiscoverLinks([]byte("<html><body><p>plain</p></body></html>"), "https://example.com"))
}

func TestDiscoverLinksBadBase(t *testing.T) {
	require.Nil(t, DiscoverLinks([]byte(`<a href="/x">x</a>`), "://bad"))
}
