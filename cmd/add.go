package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/brewlog/internal/logging"
	"github.com/manav03panchal/brewlog/internal/model"
	"github.com/manav03panchal/brewlog/internal/parser"
	"github.com/manav03panchal/brewlog/internal/validate"
)

// Brew form flags, shared by add and edit.
var (
	brewFlagBean   string
	brewFlagMethod string
	brewFlagRatio  string
	brewFlagScore  string
	brewFlagNotes  string
)

// addCmd represents the add command.
var addCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"log", "new"},
	Short:   "Log a new brew",
	Long: `Log a new brew. Bean, method, ratio and score are required.

The method must be one of the configured methods (see 'brewlog config').
Scores run from 1 to 10 and may use halves, like 7.5.

Examples:
  brewlog add --bean "Kenya AA" --method V60 --ratio 1:16 --score 8
  brewlog add -b Yirgacheffe -m chemex -r 1:15 -s 9 -n "blueberry, long finish"`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	registerBrewFlags(addCmd)
	addCmd.MarkFlagRequired("bean")
	addCmd.MarkFlagRequired("method")
	addCmd.MarkFlagRequired("ratio")
	addCmd.MarkFlagRequired("score")

	rootCmd.AddCommand(addCmd)
}

func registerBrewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&brewFlagBean, "bean", "b", "", "Bean name (up to 30 characters)")
	cmd.Flags().StringVarP(&brewFlagMethod, "method", "m", "", "Brew method")
	cmd.Flags().StringVarP(&brewFlagRatio, "ratio", "r", "", "Coffee to water ratio, like 1:15")
	cmd.Flags().StringVarP(&brewFlagScore, "score", "s", "", "Score from 1 to 10")
	cmd.Flags().StringVarP(&brewFlagNotes, "notes", "n", "", "Tasting notes (up to 120 characters)")

	cmd.RegisterFlagCompletionFunc("method", completeMethods)
}

// formFields overlays the flags the user set onto base.
func formFields(cmd *cobra.Command, base model.BrewFields) (model.BrewFields, error) {
	fields := base
	flags := cmd.Flags()
	if flags.Changed("bean") {
		fields.Bean = brewFlagBean
	}
	if flags.Changed("method") {
		fields.Method = brewFlagMethod
	}
	if flags.Changed("ratio") {
		fields.Ratio = brewFlagRatio
	}
	if flags.Changed("notes") {
		fields.Notes = brewFlagNotes
	}
	if flags.Changed("score") {
		score, err := parser.ParseScore(brewFlagScore)
		if err != nil {
			return fields, err
		}
		fields.Score = score
	}
	return validate.BrewFields(fields, ctx.Methods())
}

func runAdd(cmd *cobra.Command, args []string) error {
	fields, err := formFields(cmd, model.BrewFields{})
	if err != nil {
		return err
	}

	brew, err := ctx.Store.Add(fields)
	if err != nil {
		return err
	}
	logging.LogOperation("add", logging.KeyBrewID, brew.ID, logging.KeyMethod, brew.Method)

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintBrew("added", brew)
	}
	ctx.CLIFormatter().PrintBrewAdded(brew)
	return nil
}
