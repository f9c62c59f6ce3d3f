package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/brewlog/internal/config"
	"github.com/manav03panchal/brewlog/internal/logging"
	"github.com/manav03panchal/brewlog/internal/output"
	"github.com/manav03panchal/brewlog/internal/storage"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "settings"},
	Short:   "Show the effective configuration",
	Long: `Show the configuration brewlog is running with.

Values come from the defaults, then the env file, then the environment:

  BREWLOG_METHODS       Comma separated brew methods
  BREWLOG_BACKEND       Storage backend: badger or sqlite
  BREWLOG_DATA_DIR      Directory holding the database
  BREWLOG_DEFAULT_SORT  Default list order, like score-desc
  BREWLOG_EXPORT_DIR    Directory for export files
  BREWLOG_DATABASE      Set to :memory: to keep nothing on disk

The env file lives at $XDG_CONFIG_HOME/brewlog/brewlog.env and holds
KEY=value lines. Variables set in the environment win over the file.

Examples:
  brewlog config
  brewlog config --format json`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := ctx.Config

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(cfg)
	}

	var location string
	switch {
	case cfg.InMemory:
		location = storage.MemoryPath
	case cfg.Backend == storage.BackendSQLite:
		location = storage.SQLitePath(cfg.DataDir)
	default:
		location = storage.DefaultPath(cfg.DataDir)
	}

	envFile := cfg.EnvFile
	if envFile == "" {
		envFile = config.EnvFilePath() + " (not found)"
	}

	rows := []output.TableRow{
		{Columns: []string{"methods", strings.Join(cfg.Methods, ", ")}},
		{Columns: []string{"backend", cfg.Backend}},
		{Columns: []string{"database", location}},
	}
	if timer, ok := ctx.Slot.(storage.SaveTimer); ok {
		rows = append(rows, output.TableRow{Columns: []string{"last saved", lastSaved(timer)}})
	}
	rows = append(rows,
		output.TableRow{Columns: []string{"default sort", cfg.DefaultSort}},
		output.TableRow{Columns: []string{"export dir", cfg.ExportDir}},
		output.TableRow{Columns: []string{"env file", envFile}},
	)

	cli := ctx.CLIFormatter()
	cli.Title("Configuration")
	cli.PrintTable([]string{"SETTING", "VALUE"}, rows)
	return nil
}

func lastSaved(timer storage.SaveTimer) string {
	t, ok, err := timer.LastSaved()
	if err != nil {
		logging.Warn("cannot read last save time", logging.KeyError, err)
		return "unknown"
	}
	if !ok {
		return "never"
	}
	return output.FormatTime(t)
}
