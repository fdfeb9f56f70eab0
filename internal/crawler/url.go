package crawler

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var invalidFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

var githubBlobPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+)/blob/([^/]+)/(.*)$`)

// mimeExtensions is the fixed MIME subtype to extension table used for
// opaque binaries. No platform mime registry lookup: the mapping must be
// identical on every host so file paths stay deterministic.
var mimeExtensions = map[string]string{
	"text/html":                "html",
	"application/xhtml+xml":    "html",
	"application/pdf":          "pdf",
	"application/json":         "json",
	"text/plain":               "txt",
	"text/csv":                 "csv",
	"text/xml":                 "xml",
	"application/xml":          "xml",
	"application/zip":          "zip",
	"application/octet-stream": "bin",
	"application/msword":       "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
}

// NormalizeURL standardizes a URL for visited-set membership. It lowercases
// the scheme and host, removes default ports and fragments, and sorts query
// parameters.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	u.Fragment = ""
	u.RawQuery = u.Query().Encode()

	return u.String(), nil
}

// RewriteURL applies known pure URL rewrites before a fetch. Currently only
// GitHub "blob" view URLs, which serve an HTML wrapper instead of the file
// itself, are rewritten to their raw-content equivalent. Idempotent.
func RewriteURL(rawURL string) string {
	if m := githubBlobPattern.FindStringSubmatch(rawURL); m != nil {
		return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", m[1], m[2], m[3], m[4])
	}
	return rawURL
}

// SafeBasename derives a deterministic filesystem-safe basename from a URL:
// host_path_hash16. The hash suffix keeps distinct URLs that sanitize to the
// same host/path from colliding.
func SafeBasename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return hashURL(rawURL)
	}
	host := invalidFilenameChars.ReplaceAllString(u.Hostname(), "_")
	if host == "" {
		host = "unknown_host"
	}
	p := strings.Trim(u.EscapedPath(), "/")
	if p == "" {
		p = "root"
	}
	p = invalidFilenameChars.ReplaceAllString(p, "_")
	if len(p) > 120 {
		p = p[:120]
	}
	return fmt.Sprintf("%s_%s_%s", host, p, hashURL(rawURL)[:16])
}

func hashURL(raw string) string {
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ExtensionForContentType maps a Content-Type header value to a file
// extension using the fixed table, defaulting to ".bin".
func ExtensionForContentType(contentType string) string {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	if ext, ok := mimeExtensions[mediaType]; ok {
		return "." + ext
	}
	return ".bin"
}

// SameHost reports whether two URLs share a hostname, case-insensitively.
// Unparseable URLs never match.
func SameHost(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	if ua.Hostname() == "" || ub.Hostname() == "" {
		return false
	}
	return strings.EqualFold(ua.Hostname(), ub.Hostname())
}

// HasExtension reports whether the URL path ends in one of exts
// (lowercased, dot-prefixed).
func HasExtension(rawURL string, exts []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	p := strings.ToLower(u.EscapedPath())
	for _, ext := range exts {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// IsSearchURL reports whether rawURL targets the configured paginated
// search endpoint.
func IsSearchURL(cfg SearchConfig, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range cfg.Hosts {
		if host == h && u.Path == cfg.Path {
			return true
		}
	}
	return false
}
