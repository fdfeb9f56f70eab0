package crawler

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		res  FetchResult
		want ContentKind
	}{
		{
			name: "pdf content type",
			res:  FetchResult{FinalURL: "https://example.com/doc", ContentType: "application/pdf"},
			want: KindPDF,
		},
		{
			name: "pdf header beats html suffix",
			res:  FetchResult{FinalURL: "https://example.com/doc.html", ContentType: "application/pdf; charset=binary"},
			want: KindPDF,
		},
		{
			name: "pdf url suffix with generic header",
			res:  FetchResult{FinalURL: "https://example.com/doc.pdf", ContentType: "application/octet-stream"},
			want: KindPDF,
		},
		{
			name: "html content type",
			res:  FetchResult{FinalURL: "https://example.com/page", ContentType: "text/html; charset=utf-8", Body: []byte("payload")},
			want: KindHTML,
		},
		{
			name: "html by body sniff",
			res:  FetchResult{FinalURL: "https://example.com/page", ContentType: "application/octet-stream", Body: []byte("\n\n<HTML><body>hi</body>")},
			want: KindHTML,
		},
		{
			name: "sniff window is bounded",
			res: FetchResult{
				FinalURL:    "https://example.com/page",
				ContentType: "application/octet-stream",
				Body:        []byte(strings.Repeat("x", 600) + "<html>"),
			},
			want: KindBinary,
		},
		{
			name: "opaque binary",
			res:  FetchResult{FinalURL: "https://example.com/archive.tar", ContentType: "application/octet-stream", Body: []byte{0x1f, 0x8b}},
			want: KindBinary,
		},
		{
			name: "empty body without headers",
			res:  FetchResult{FinalURL: "https://example.com/x"},
			want: KindBinary,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.res); got != tc.want {
				t.Fatalf("Classify() = %q, want %q", got, tc.want)
			}
		})
	}
}
