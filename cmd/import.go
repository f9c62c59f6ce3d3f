package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/brewlog/internal/logging"
	"github.com/manav03panchal/brewlog/internal/store"
	"github.com/manav03panchal/brewlog/internal/transfer"
)

// Import command flags.
var (
	importFlagMode   string
	importFlagDryRun bool
)

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:     "import FILE",
	Aliases: []string{"imp", "restore"},
	Short:   "Import brews from a JSON file",
	Long: `Import brews from a brewlog export or a plain JSON array of brews.

Modes:
  merge    keep existing brews; imported brews with the same ID replace them
  replace  discard existing brews and keep only the imported ones

Invalid records are skipped and counted. If no record in the file is valid,
nothing changes.

Examples:
  brewlog import brewlog-export-20240515.json
  brewlog import old.json --mode replace
  brewlog import old.json --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importFlagMode, "mode", string(store.ModeMerge), "Import mode: merge or replace")
	importCmd.Flags().BoolVar(&importFlagDryRun, "dry-run", false, "Preview import without making changes")

	importCmd.RegisterFlagCompletionFunc("mode", completeImportModes)

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	mode, err := transfer.ParseMode(importFlagMode)
	if err != nil {
		return err
	}

	items, err := transfer.ReadImportFile(args[0])
	if err != nil {
		return err
	}

	var report store.ImportReport
	if importFlagDryRun {
		report, err = ctx.Store.PreviewImport(mode, items)
	} else {
		report, err = ctx.Store.Import(mode, items)
	}
	if err != nil {
		return err
	}
	logging.LogOperation("import",
		logging.KeyMode, string(mode),
		logging.KeyCount, report.Written,
		logging.KeySkipped, report.Skipped)

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintImportReport(report)
	}
	ctx.CLIFormatter().PrintImportReport(report)
	return nil
}
