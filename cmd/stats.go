package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/brewlog/internal/store"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"st", "summary"},
	Short:   "Show brew statistics",
	Long: `Show the number of brews, the average score, the best and the latest
brew, and a breakdown per method.

Examples:
  brewlog stats
  brewlog stats --format json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	stats := store.Summarize(ctx.Store.Records())

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintStats(stats)
	}
	ctx.CLIFormatter().PrintStats(stats)
	return nil
}
