package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lexharvest/lexharvest/internal/crawler"
	"github.com/lexharvest/lexharvest/internal/logging"
)

// newExportCmd regenerates the CSV summary from existing combined logs
// without running a crawl.
func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Rebuilds the CSV summary from existing record logs",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := crawler.LoadConfig(viper.GetViper())
			if err != nil {
				return fmt.Errorf("load crawler config: %w", err)
			}
			return writeSummary(cfg, logging.L)
		},
	}
}
