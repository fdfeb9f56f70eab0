// Package config is responsible for initializing the application's
// configuration. It uses the Viper library to read settings from a config
// file and environment variables, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lexharvest/lexharvest/internal/logging"
)

// InitConfig initializes the application's configuration using Viper. It
// sets defaults, defines configuration search paths, and enables reading
// from environment variables. Designed to be called once at startup.
func InitConfig() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/lexharvest/")
	viper.AddConfigPath("$HOME/.lexharvest")

	viper.SetDefault("crawler.user_agent", "lexharvest/1.0 (+https://github.com/lexharvest/lexharvest)")
	viper.SetDefault("crawler.output_dir", "data/harvest")
	viper.SetDefault("crawler.max_depth", 2)
	viper.SetDefault("crawler.max_links_per_page", 20)
	viper.SetDefault("crawler.follow_links", true)
	viper.SetDefault("crawler.same_domain_only", false)
	viper.SetDefault("crawler.skip_extensions", []string{".jpg", ".jpeg", ".png", ".gif", ".zip", ".exe"})
	viper.SetDefault("crawler.concurrency", 2)
	viper.SetDefault("crawler.queue_depth", 64)
	viper.SetDefault("crawler.delay", "800ms")
	viper.SetDefault("crawler.request_timeout", "30s")
	viper.SetDefault("crawler.max_retries", 3)
	viper.SetDefault("crawler.max_body_bytes", 20*1024*1024)

	viper.SetDefault("search.hosts", []string{"archive.org", "www.archive.org"})
	viper.SetDefault("search.path", "/search")
	viper.SetDefault("search.item_prefix", "/details/")
	viper.SetDefault("search.file_exts", []string{".pdf", ".txt", ".doc", ".docx"})
	viper.SetDefault("search.max_items", 50)

	viper.SetDefault("export.summary_csv", "metadata.csv")
	viper.SetDefault("logging.development", true)

	viper.SetEnvPrefix("LEXHARVEST") // e.g. LEXHARVEST_CRAWLER_MAX_DEPTH=3
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
