package crawler

import (
	"bytes"
	"strings"
)

// htmlSniffWindow bounds how far into a body the <html fallback looks.
const htmlSniffWindow = 500

// Classify assigns a ContentKind to a fetch result. The header wins over
// the URL suffix: a content type containing "pdf" is always a PDF, then a
// .pdf path suffix on the effective URL, then HTML by header or by sniffing
// the first 500 bytes for "<html". Everything else is opaque binary.
func Classify(res FetchResult) ContentKind {
	ct := strings.ToLower(res.ContentType)
	if strings.Contains(ct, "pdf") {
		return KindPDF
	}
	if HasExtension(res.FinalURL, []string{".pdf"}) {
		return KindPDF
	}
	if strings.Contains(ct, "text/html") {
		return KindHTML
	}
	if looksLikeHTML(res.Body) {
		return KindHTML
	}
	return KindBinary
}

func looksLikeHTML(body []byte) bool {
	if len(body) == 0 {
		return false
	}
	window := body
	if len(window) > htmlSniffWindow {
		window = window[:htmlSniffWindow]
	}
	return bytes.Contains(bytes.ToLower(window), []byte("<html"))
}
