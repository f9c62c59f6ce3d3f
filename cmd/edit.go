package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/brewlog/internal/errors"
	"github.com/manav03panchal/brewlog/internal/logging"
	"github.com/manav03panchal/brewlog/internal/model"
)

// editCmd represents the edit command.
var editCmd = &cobra.Command{
	Use:     "edit ID",
	Aliases: []string{"e", "update"},
	Short:   "Edit a logged brew",
	Long: `Edit a logged brew. Only the flags you pass are changed; the ID and the
brew time stay the same.

ID may be the full ID or the short ID shown by 'brewlog list'.

Examples:
  brewlog edit 3f9a1c2e --score 9
  brewlog edit 3f9a1c2e --notes "better with a coarser grind"`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeBrewIDs,
	RunE:              runEdit,
}

func init() {
	registerBrewFlags(editCmd)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	existing, err := resolveBrew(args[0])
	if err != nil {
		return err
	}
	if existing == nil {
		return printNotFound(args[0])
	}

	fields, err := formFields(cmd, existing.Fields())
	if err != nil {
		return err
	}

	ctx.Store.BeginEdit(existing.ID)
	brew, err := ctx.Store.Submit(fields)
	if err != nil {
		return err
	}
	logging.LogOperation("edit", logging.KeyBrewID, brew.ID)

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintBrew("updated", brew)
	}
	ctx.CLIFormatter().PrintBrewUpdated(brew)
	return nil
}

// resolveBrew looks up a brew by full or short ID. It returns nil without an
// error when the reference matches nothing, and an error when it matches
// more than one brew.
func resolveBrew(ref string) (*model.Brew, error) {
	id, err := ctx.Store.Resolve(ref)
	if errors.Is(err, errors.ErrBrewNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ctx.Store.Get(id), nil
}

// printNotFound reports a stale or unknown ID. It is a notice, not an error.
func printNotFound(ref string) error {
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintNotFound(ref)
	}
	ctx.CLIFormatter().PrintNotFound(ref)
	return nil
}
