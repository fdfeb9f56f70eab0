package crawler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob that influences a harvest run. All values
// originate from Viper so the crawler can be configured via files, env vars,
// or CLI flags.
type Config struct {
	Brains          map[string][]string
	UserAgent       string
	OutputDir       string
	MaxDepth        int
	MaxLinksPerPage int
	FollowLinks     bool
	SameDomainOnly  bool
	SkipExtensions  []string
	Concurrency     int
	QueueDepth      int
	Delay           time.Duration
	RequestTimeout  time.Duration
	MaxRetries      int
	MaxBodyBytes    int
	Search          SearchConfig
}

// SearchConfig describes the one paginated search site the specialized
// controller understands. The defaults target archive.org but everything is
// configuration, not logic.
type SearchConfig struct {
	Hosts      []string
	Path       string
	ItemPrefix string
	FileExts   []string
	MaxItems   int
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Brains:          v.GetStringMapStringSlice("brains"),
		UserAgent:       v.GetString("crawler.user_agent"),
		OutputDir:       v.GetString("crawler.output_dir"),
		MaxDepth:        v.GetInt("crawler.max_depth"),
		MaxLinksPerPage: v.GetInt("crawler.max_links_per_page"),
		FollowLinks:     v.GetBool("crawler.follow_links"),
		SameDomainOnly:  v.GetBool("crawler.same_domain_only"),
		SkipExtensions:  normalizeExtensions(v.GetStringSlice("crawler.skip_extensions")),
		Concurrency:     v.GetInt("crawler.concurrency"),
		QueueDepth:      v.GetInt("crawler.queue_depth"),
		Delay:           v.GetDuration("crawler.delay"),
		RequestTimeout:  v.GetDuration("crawler.request_timeout"),
		MaxRetries:      v.GetInt("crawler.max_retries"),
		MaxBodyBytes:    v.GetInt("crawler.max_body_bytes"),
		Search: SearchConfig{
			Hosts:      lowerAll(v.GetStringSlice("search.hosts")),
			Path:       v.GetString("search.path"),
			ItemPrefix: v.GetString("search.item_prefix"),
			FileExts:   normalizeExtensions(v.GetStringSlice("search.file_exts")),
			MaxItems:   v.GetInt("search.max_items"),
		},
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if len(c.Brains) == 0 {
		return fmt.Errorf("brains must include at least one seed group")
	}
	for brain, urls := range c.Brains {
		if len(urls) == 0 {
			return fmt.Errorf("brain %q has no seed URLs", brain)
		}
	}
	if c.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("crawler.output_dir must be set")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("crawler.max_depth must be >= 0")
	}
	if c.MaxLinksPerPage <= 0 {
		return fmt.Errorf("crawler.max_links_per_page must be > 0")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("crawler.concurrency must be > 0")
	}
	if c.QueueDepth <= 0 {
		return fmt.Errorf("crawler.queue_depth must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("crawler.request_timeout must be > 0")
	}
	if c.Delay < 0 {
		return fmt.Errorf("crawler.delay must be >= 0")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("crawler.max_retries must be > 0")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("crawler.max_body_bytes must be > 0")
	}
	if c.Search.MaxItems <= 0 {
		return fmt.Errorf("search.max_items must be > 0")
	}
	if c.Search.Path == "" || c.Search.ItemPrefix == "" {
		return fmt.Errorf("search.path and search.item_prefix must be set")
	}
	return nil
}

// Seeds flattens the brain map into a deterministic seed order: brains
// sorted by name, URLs in configured order.
func (c Config) Seeds() []Seed {
	brains := make([]string, 0, len(c.Brains))
	for brain := range c.Brains {
		brains = append(brains, brain)
	}
	sort.Strings(brains)

	var seeds []Seed
	for _, brain := range brains {
		for _, u := range c.Brains[brain] {
			u = strings.TrimSpace(u)
			if u == "" {
				continue
			}
			seeds = append(seeds, Seed{Brain: brain, URL: u})
		}
	}
	return seeds
}

// BrainNames returns the configured brain names sorted alphabetically.
func (c Config) BrainNames() []string {
	names := make([]string, 0, len(c.Brains))
	for brain := range c.Brains {
		names = append(names, brain)
	}
	sort.Strings(names)
	return names
}

func normalizeExtensions(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{})
	for _, ext := range in {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
