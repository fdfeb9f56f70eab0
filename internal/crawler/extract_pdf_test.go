package crawler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractPDFRejectsGarbage(t *testing.T) {
	_, err := ExtractPDF([]byte("this is not a pdf"))
	require.Error(t, err)
}

func TestExtractPDFRejectsEmpty(t *testing.T) {
	_, err := ExtractPDF(nil)
	require.Error(t, err)
}

func TestExtractPDFSurvivesMalformedHeader(t *testing.T) {
	// A plausible-looking header with a broken xref table must come back
	// as an error, not a panic.
	body := []byte("%PDF-1.4\n" + strings.Repeat("\x00", 64) + "%%EOF")
	require.NotPanics(t, func() {
		if _, err := ExtractPDF(body); err == nil {
			t.Fatalf("malformed pdf must fail extraction")
		}
	})
}
