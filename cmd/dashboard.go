package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/manav03panchal/brewlog/internal/tui"
)

// dashboardCmd represents the dashboard command.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "tui"},
	Short:   "Open the interactive TUI dashboard",
	Long: `Open an interactive terminal dashboard to browse and manage brews.

The dashboard shows:
  - Brew count, average score and the active filters
  - The brews in the current sort order

Keyboard Controls:
  ↑/↓ or k/j  Move the selection
  m           Cycle the method filter
  +/-         Raise or lower the minimum score
  s           Sort by date or by score
  o           Flip the sort order
  /           Search bean and notes
  r           Reset filters
  e           Edit the selected brew's score (< and > adjust, enter saves)
  d           Delete the selected brew
  q           Quit dashboard

Examples:
  brewlog dashboard
  brewlog dash`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	// Configure the dashboard
	config := tui.DashboardConfig{
		Store:   ctx.Store,
		Methods: ctx.Methods(),
		Sort:    ctx.Config.Sort(),
	}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		config.Width, config.Height = w, h
	}

	// Run the TUI dashboard
	return tui.Run(config)
}
