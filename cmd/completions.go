package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/brewlog/internal/output"
	"github.com/manav03panchal/brewlog/internal/store"
)

// completeBrewIDs completes short brew IDs, described by bean and method.
func completeBrewIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || ctx == nil || ctx.Store == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, b := range ctx.Store.View(store.Filter{}, store.DefaultSort) {
		short := output.ShortID(b.ID)
		if strings.HasPrefix(short, toComplete) {
			completions = append(completions, short+"\t"+b.Bean+" ("+b.Method+")")
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeMethods completes the configured brew methods.
func completeMethods(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if ctx == nil || ctx.Config == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, m := range ctx.Methods() {
		if strings.HasPrefix(strings.ToLower(m), strings.ToLower(toComplete)) {
			completions = append(completions, m)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeSorts completes list sort orders.
func completeSorts(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"createdAt-desc\tnewest first",
		"createdAt-asc\toldest first",
		"score-desc\thighest score first",
		"score-asc\tlowest score first",
	}, cobra.ShellCompDirectiveNoFileComp
}

// completeImportModes completes import modes.
func completeImportModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(store.ModeMerge) + "\tupsert by ID",
		string(store.ModeReplace) + "\tdiscard existing brews",
	}, cobra.ShellCompDirectiveNoFileComp
}
