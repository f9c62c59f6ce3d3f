package cmd

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/brewlog/internal/logging"
	"github.com/manav03panchal/brewlog/internal/storage"
	"github.com/manav03panchal/brewlog/internal/transfer"
)

// Export command flags.
var (
	exportFlagOutput string
	exportFlagStdout bool
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"ex", "backup"},
	Short:   "Export all brews to a JSON file",
	Long: `Export all brews as a JSON document that 'brewlog import' can read back.

Without -o the file is named brewlog-export-YYYYMMDD.json and written to the
export directory (BREWLOG_EXPORT_DIR, or the current directory).
The file is written atomically, so an interrupted export never leaves a
partial file behind.

Examples:
  brewlog export
  brewlog export -o ~/backups/coffee.json
  brewlog export --stdout | jq '.brews | length'`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlagOutput, "output", "o", "", "Output file")
	exportCmd.Flags().BoolVar(&exportFlagStdout, "stdout", false, "Write the document to stdout")
	exportCmd.MarkFlagsMutuallyExclusive("output", "stdout")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	now := time.Now()
	records := ctx.Store.Records()
	doc := transfer.NewExport(records, now)

	if exportFlagStdout {
		return transfer.Encode(ctx.Formatter.Writer, doc)
	}

	path := exportFlagOutput
	if path == "" {
		path = filepath.Join(ctx.Config.ExportDir, transfer.ExportFilename(now))
	}

	data, err := transfer.Marshal(doc)
	if err != nil {
		return err
	}
	if err := storage.EnsureDirectory(filepath.Dir(path)); err != nil {
		return err
	}
	if err := storage.SafeWrite(path, data, 0o644); err != nil {
		return err
	}
	logging.Info("brews exported", logging.KeyPath, path, logging.KeyCount, len(records))

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintExported(path, len(records))
	}
	cli := ctx.CLIFormatter()
	cli.PrintExported(path, len(records))
	if warning := storage.CheckDiskSpaceWarning(filepath.Dir(path)); warning != "" {
		cli.Warning(warning)
	}
	return nil
}
