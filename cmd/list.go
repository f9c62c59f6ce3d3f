package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/brewlog/internal/errors"
	"github.com/manav03panchal/brewlog/internal/model"
	"github.com/manav03panchal/brewlog/internal/parser"
	"github.com/manav03panchal/brewlog/internal/store"
	"github.com/manav03panchal/brewlog/internal/validate"
)

// List command flags.
var (
	listFlagMethod   string
	listFlagMinScore float64
	listFlagSearch   string
	listFlagSort     string
	listFlagSince    string
	listFlagLimit    int
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:     "list [KEYWORD]",
	Aliases: []string{"ls", "l"},
	Short:   "List logged brews",
	Long: `List logged brews, newest first unless --sort says otherwise.

Filters combine: a brew is shown only when it passes all of them. The keyword
matches the bean name and the notes, ignoring case.

Sort orders: createdAt-desc, createdAt-asc, score-desc, score-asc.
"date" and "recent" are accepted for createdAt; the direction defaults to desc.

Examples:
  brewlog list
  brewlog list kenya
  brewlog list --method V60 --min-score 7
  brewlog list --sort score-asc
  brewlog list --since "last week"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFlagMethod, "method", "m", store.MethodAll, "Only brews made with this method")
	listCmd.Flags().Float64Var(&listFlagMinScore, "min-score", 0, "Only brews scoring at least this")
	listCmd.Flags().StringVarP(&listFlagSearch, "search", "q", "", "Keyword to match in bean or notes")
	listCmd.Flags().StringVarP(&listFlagSort, "sort", "s", "", "Sort order (default from config)")
	listCmd.Flags().StringVar(&listFlagSince, "since", "", "Only brews from this time on, like \"yesterday\" or 2024-05-01")
	listCmd.Flags().IntVarP(&listFlagLimit, "limit", "n", 0, "Show at most this many brews")

	listCmd.RegisterFlagCompletionFunc("method", completeMethods)
	listCmd.RegisterFlagCompletionFunc("sort", completeSorts)

	rootCmd.AddCommand(listCmd)
}

// listFilter builds the view filter from the list flags.
func listFilter(args []string, now time.Time) (store.Filter, error) {
	filter := store.Filter{
		Method:   store.MethodAll,
		MinScore: listFlagMinScore,
		Keyword:  listFlagSearch,
	}
	if len(args) > 0 {
		filter.Keyword = args[0]
	}

	if listFlagMethod != "" && listFlagMethod != store.MethodAll {
		method, err := validate.Method(listFlagMethod, ctx.Methods())
		if err != nil {
			return filter, err
		}
		filter.Method = method
	}

	if listFlagSince != "" {
		result := parser.ParseTimestamp(listFlagSince, now)
		if result.Error != nil {
			return filter, errors.NewUserErrorWithField("since", listFlagSince,
				"Cannot understand --since", "Try \"yesterday\", \"this week\" or a date like 2024-05-01.")
		}
		filter.Since = result.Time
	}
	return filter, nil
}

// listSort returns the --sort order, falling back to the configured default.
func listSort() (store.Sort, error) {
	if listFlagSort == "" {
		return ctx.Config.Sort(), nil
	}
	return store.ParseSort(listFlagSort)
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := listFilter(args, time.Now())
	if err != nil {
		return err
	}
	order, err := listSort()
	if err != nil {
		return err
	}

	brews := ctx.Store.View(filter, order)
	if listFlagLimit > 0 && len(brews) > listFlagLimit {
		brews = brews[:listFlagLimit]
	}

	avg, ok := ctx.Store.Average()
	return printBrews(brews, ctx.Store.Len(), avg, ok)
}

func printBrews(brews []*model.Brew, total int, avg float64, ok bool) error {
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintBrews(brews, total, avg, ok)
	}
	ctx.CLIFormatter().PrintBrews(brews, total, avg, ok)
	return nil
}
