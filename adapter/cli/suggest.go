package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/queries"
)

var (
	suggestFile     string
	suggestStrategy string
	suggestTop      int
	suggestToday    string
	suggestJSON     bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show the tasks to work on next",
	Long: `Show the top tasks to work on next.

Without --file the built-in sample tasks are ranked.

Examples:
  smarttask suggest
  smarttask suggest --file tasks.json --top 5
  smarttask suggest --file - --strategy fastest_wins --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SuggestTasksHandler == nil {
			return errors.New("application not initialized")
		}
		if suggestTop < 0 {
			return errors.New("--top must not be negative")
		}

		var input taskFile
		if suggestFile != "" {
			var err error
			input, err = readTasks(cmd.InOrStdin(), suggestFile)
			if err != nil {
				return err
			}
		}
		today, err := parseToday(suggestToday)
		if err != nil {
			return err
		}

		strategy := input.Strategy
		if suggestStrategy != "" {
			strategy = suggestStrategy
		}

		result, err := app.SuggestTasksHandler.Handle(cmd.Context(), queries.SuggestTasksQuery{
			Tasks:    input.Tasks,
			Strategy: strategy,
			TopN:     suggestTop,
			Today:    today,
		})
		if err != nil {
			return fmt.Errorf("failed to suggest tasks: %w", err)
		}

		suggestion := result.Suggestion
		out := cmd.OutOrStdout()
		if suggestJSON {
			return writeJSON(out, suggestion)
		}

		fmt.Fprintln(out, titleStyle.Render("Strategy: "+suggestion.Strategy))
		if result.UsedSample {
			fmt.Fprintln(out, dimStyle.Render("No tasks given, ranking the sample tasks."))
		}
		if len(suggestion.TopTasks) == 0 {
			fmt.Fprintln(out, "No tasks to suggest.")
			return nil
		}
		fmt.Fprintln(out, renderRanking(suggestion.TopTasks, Verbose()))
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("Top %d of %d tasks analyzed.", len(suggestion.TopTasks), suggestion.TotalTasksAnalyzed)))

		tasks := input.Tasks
		if result.UsedSample {
			tasks = nil
		}
		if cycles := renderCycles(suggestion.CircularDependencies, tasks); cycles != "" {
			fmt.Fprint(out, cycles)
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestFile, "file", "f", "", "tasks JSON file (- for stdin); sample tasks when omitted")
	suggestCmd.Flags().StringVarP(&suggestStrategy, "strategy", "s", "", "scoring strategy (default from config)")
	suggestCmd.Flags().IntVarP(&suggestTop, "top", "n", 0, "number of tasks to suggest (default from config)")
	suggestCmd.Flags().StringVar(&suggestToday, "today", "", "score as of this date (YYYY-MM-DD)")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "print JSON instead of a table")

	rootCmd.AddCommand(suggestCmd)
}
