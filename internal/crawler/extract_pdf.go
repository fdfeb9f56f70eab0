package crawler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF extracts plain text from a PDF payload page by page, joining
// pages with a blank line. A failure is returned to the caller to record;
// it never aborts the enclosing task.
func ExtractPDF(body []byte) (text string, err error) {
	// The pdf library panics on some malformed xref tables, so the panic is
	// converted into an ordinary extraction error here.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not void the rest.
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText != "" {
			pages = append(pages, pageText)
		}
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("pdf yielded no text")
	}
	MetricPDFExtractions.Inc()
	return strings.Join(pages, "\n\n"), nil
}
