package crawler

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func testViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.Set("brains", map[string][]string{
		"case_law": {"https://example.com/cases"},
		"statutes": {"https://example.com/statutes", "https://example.com/codes"},
	})
	v.Set("crawler.user_agent", "lexharvest-test/1.0")
	v.Set("crawler.output_dir", t.TempDir())
	v.Set("crawler.max_depth", 2)
	v.Set("crawler.max_links_per_page", 10)
	v.Set("crawler.follow_links", true)
	v.Set("crawler.same_domain_only", true)
	v.Set("crawler.skip_extensions", []string{"JPG", ".png", "png"})
	v.Set("crawler.concurrency", 2)
	v.Set("crawler.queue_depth", 8)
	v.Set("crawler.delay", "10ms")
	v.Set("crawler.request_timeout", "5s")
	v.Set("crawler.max_retries", 3)
	v.Set("crawler.max_body_bytes", 1024*1024)
	v.Set("search.hosts", []string{"Archive.org"})
	v.Set("search.path", "/search")
	v.Set("search.item_prefix", "/details/")
	v.Set("search.file_exts", []string{"pdf", ".txt"})
	v.Set("search.max_items", 25)
	return v
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(testViper(t))
	require.NoError(t, err)

	require.Equal(t, "lexharvest-test/1.0", cfg.UserAgent)
	require.Equal(t, 2, cfg.MaxDepth)
	require.Equal(t, 10*time.Millisecond, cfg.Delay)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.True(t, cfg.SameDomainOnly)

	// Extensions are lowercased, dot-prefixed, and deduplicated.
	require.Equal(t, []string{".jpg", ".png"}, cfg.SkipExtensions)
	require.Equal(t, []string{".pdf", ".txt"}, cfg.Search.FileExts)
	// Search hosts are lowercased for case-insensitive matching.
	require.Equal(t, []string{"archive.org"}, cfg.Search.Hosts)
	require.Equal(t, 25, cfg.Search.MaxItems)
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name  string
		mod   func(v *viper.Viper)
		wants string
	}{
		{"no brains", func(v *viper.Viper) { v.Set("brains", map[string][]string{}) }, "brains"},
		{"brain without seeds", func(v *viper.Viper) { v.Set("brains", map[string][]string{"empty": {}}) }, "no seed URLs"},
		{"missing user agent", func(v *viper.Viper) { v.Set("crawler.user_agent", "") }, "user_agent"},
		{"missing output dir", func(v *viper.Viper) { v.Set("crawler.output_dir", "") }, "output_dir"},
		{"negative depth", func(v *viper.Viper) { v.Set("crawler.max_depth", -1) }, "max_depth"},
		{"zero concurrency", func(v *viper.Viper) { v.Set("crawler.concurrency", 0) }, "concurrency"},
		{"zero retries", func(v *viper.Viper) { v.Set("crawler.max_retries", 0) }, "max_retries"},
		{"zero search quota", func(v *viper.Viper) { v.Set("search.max_items", 0) }, "max_items"},
		{"missing search path", func(v *viper.Viper) { v.Set("search.path", "") }, "search.path"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := testViper(t)
			tc.mod(v)
			_, err := LoadConfig(v)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wants)
		})
	}
}

func TestConfigSeeds(t *testing.T) {
	cfg := Config{Brains: map[string][]string{
		"statutes": {"https://example.com/statutes", " ", "https://example.com/codes"},
		"case_law": {"https://example.com/cases"},
	}}

	seeds := cfg.Seeds()
	require.Equal(t, []Seed{
		{Brain: "case_law", URL: "https://example.com/cases"},
		{Brain: "statutes", URL: "https://example.com/statutes"},
		{Brain: "statutes", URL: "https://example.com/codes"},
	}, seeds)
}

func TestConfigBrainNames(t *testing.T) {
	cfg := Config{Brains: map[string][]string{
		"z_last": {"u"}, "a_first": {"u"},
	}}
	require.Equal(t, []string{"a_first", "z_last"}, cfg.BrainNames())
}
