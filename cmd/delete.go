package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/brewlog/internal/logging"
)

// deleteCmd represents the delete command.
var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a logged brew",
	Long: `Delete a logged brew by full or short ID.

Examples:
  brewlog delete 3f9a1c2e
  brewlog rm 3f9a1c2e`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeBrewIDs,
	RunE:              runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	brew, err := resolveBrew(args[0])
	if err != nil {
		return err
	}
	if brew == nil {
		return printNotFound(args[0])
	}

	ok, err := ctx.Store.Delete(brew.ID)
	if err != nil {
		return err
	}
	if !ok {
		return printNotFound(args[0])
	}
	logging.LogOperation("delete", logging.KeyBrewID, brew.ID)

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintBrew("deleted", brew)
	}
	ctx.CLIFormatter().PrintDeleted(brew)
	return nil
}
