package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/manav03panchal/brewlog/internal/errors"
	"github.com/manav03panchal/brewlog/internal/logging"
)

// Clear command flags.
var clearFlagForce bool

// stdinIsTerminal reports whether confirmation prompts can be shown.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// clearCmd represents the clear command.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every logged brew",
	Long: `Delete every logged brew. You are asked to confirm unless --force is given.
Without a terminal to ask on, --force is required.

Consider 'brewlog export' first.

Examples:
  brewlog clear
  brewlog clear --force`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearFlagForce, "force", false, "Do not ask for confirmation")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	count := ctx.Store.Len()

	if !clearFlagForce {
		if !stdinIsTerminal() {
			return errors.NewUserError("Refusing to clear without confirmation",
				"Run 'brewlog clear --force' to delete every brew.")
		}
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete all %d brews? [y/N] ", count)) {
			ctx.CLIFormatter().Muted("Nothing deleted.")
			return nil
		}
	}

	if err := ctx.Store.ClearAll(); err != nil {
		return err
	}
	logging.LogOperation("clear", logging.KeyCount, count)

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintStatus("cleared")
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Deleted %d brews", count))
	return nil
}

// confirm asks a yes/no question and reports whether the answer was yes.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
