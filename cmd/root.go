// Package cmd provides the CLI commands for Brewlog.
//
// Copyright (c) Manav Panchal
//
// Licensed under the SEGV License, Version 1.0
// See LICENSE file for full license text.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/brewlog/internal/errors"
	"github.com/manav03panchal/brewlog/internal/logging"
	"github.com/manav03panchal/brewlog/internal/output"
	"github.com/manav03panchal/brewlog/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// runtimeOptions lets tests swap the runtime setup.
var runtimeOptions = runtime.DefaultOptions

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "brewlog",
	Short: "A coffee brew journal for the terminal",
	Long: `Brewlog keeps a journal of your coffee brews: the bean, the method,
the ratio, a score out of ten and a few notes.

Examples:
  brewlog add --bean "Ethiopia Guji" --method V60 --ratio 1:16 --score 8.5
  brewlog list --method V60 --sort score
  brewlog stats
  brewlog export
  brewlog import brewlog-export-20240515.json --mode merge
  brewlog dashboard`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for completion, help and version (but allow __complete for dynamic completions)
		if cmd.Name() == "completion" || cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		if flagDebug {
			logging.InitDebug()
		}

		format, err := output.ParseFormat(flagFormat)
		if err != nil {
			return err
		}
		colorMode, err := output.ParseColorMode(flagColor)
		if err != nil {
			return err
		}

		// Create runtime context
		opts := runtimeOptions()
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug

		ctx, err = runtime.New(opts)
		if err != nil {
			return err
		}

		logging.LogOperation(cmd.Name(), logging.KeyBackend, ctx.Config.Backend)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeContext()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: list recent brews
		return runList(cmd, args)
	},
}

func closeContext() error {
	if ctx == nil {
		return nil
	}
	err := ctx.Close()
	ctx = nil
	return err
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(os.Stderr, err)
		// PostRun is skipped when RunE fails.
		closeContext()
	}
	return err
}

// printError writes err with its suggestion, or as a JSON object in JSON mode.
func printError(w io.Writer, err error) {
	category := errors.Classify(err)
	attrs := []any{logging.KeyError, err, logging.KeyCategory, category.String()}
	if se, ok := errors.AsSystemError(err); ok && se.Op != "" {
		attrs = append(attrs, logging.KeyOperation, se.Op)
	}
	logging.Error("command failed", attrs...)

	if flagFormat == string(output.FormatJSON) {
		f := output.NewFormatter()
		if ctx != nil {
			f = ctx.Formatter
		}
		output.NewJSONFormatter(f).PrintError(err.Error(), category.String(), errors.GetSuggestion(err))
		return
	}
	fmt.Fprintln(w, "Error: "+errors.FormatError(err))
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("brewlog %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}
