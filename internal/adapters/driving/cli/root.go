// Package cli provides the labelseed command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pharmadex/labelseed/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "labelseed",
	Short: "Seed a drug database from FDA label data",
	Long: `labelseed ingests FDA drug-label JSON collections into PostgreSQL.
It streams documents out of the label file, normalises each into a
canonical drug record, and loads them in idempotent batches.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
