// Package cmd provides the CLI commands for Brewlog.
//
// Copyright (c) Manav Panchal
//
// Licensed under the SEGV License, Version 1.0
// See LICENSE file for full license text.
package cmd

import (
	"github.com/spf13/cobra"
)

var completionFlagNoDesc bool

// completionShells lists the shells a completion script can be generated for.
var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Print a shell completion script",
	Long: `Print a completion script for bash, zsh, fish or powershell.

The script completes subcommands and flags, and fills in brew methods,
sort orders and import modes from your configuration when you press TAB.

Load it for the current shell:
  source <(brewlog completion bash)
  source <(brewlog completion zsh)
  brewlog completion fish | source
  brewlog completion powershell | Out-String | Invoke-Expression

Install it for every session:
  brewlog completion bash > ~/.local/share/bash-completion/completions/brewlog
  brewlog completion zsh > "${fpath[1]}/_brewlog"
  brewlog completion fish > ~/.config/fish/completions/brewlog.fish

Zsh needs "autoload -U compinit; compinit" in ~/.zshrc.`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:                  runCompletion,
}

func init() {
	completionCmd.Flags().BoolVar(&completionFlagNoDesc, "no-descriptions", false,
		"Leave descriptions out of the completions")
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	desc := !completionFlagNoDesc

	switch args[0] {
	case "bash":
		return rootCmd.GenBashCompletionV2(w, desc)
	case "zsh":
		if desc {
			return rootCmd.GenZshCompletion(w)
		}
		return rootCmd.GenZshCompletionNoDesc(w)
	case "fish":
		return rootCmd.GenFishCompletion(w, desc)
	case "powershell":
		if desc {
			return rootCmd.GenPowerShellCompletionWithDesc(w)
		}
		return rootCmd.GenPowerShellCompletion(w)
	}
	return nil
}
