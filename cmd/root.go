package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lexharvest/lexharvest/internal/logging"
	"github.com/lexharvest/lexharvest/pkg/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexharvest",
		Short: "A bounded recursive crawler for legal document corpora.",
		Long: `lexharvest acquires legal documents for a retrieval corpus. Given seed
URLs grouped into named "brains", it fetches pages, classifies HTML, PDF,
and binary content, extracts plain text, follows outbound links to a depth
limit, and writes one structured record per visited resource plus a
combined per-brain log. Paginated archive search endpoints get a
specialized page-by-page driver.`,
	}

	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	config.InitConfig()
	logging.InitLogger(viper.GetBool("logging.development"))
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
