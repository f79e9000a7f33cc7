package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pharmadex/labelseed/internal/parser"
)

var countCmd = &cobra.Command{
	Use:   "count <labels-file>",
	Short: "Count the documents in a label file",
	Long: `Makes a full streaming pass over the label file and reports how
many documents it holds, without loading anything.`,
	Args: cobra.ExactArgs(1),
	RunE: runCount,
}

func init() {
	rootCmd.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
	source, err := parser.Open(args[0])
	if err != nil {
		return err
	}

	total, err := source.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("counting documents: %w", err)
	}

	cmd.Printf("%s holds %d documents\n", args[0], total)
	return nil
}
