package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/queries"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analysis runs",
	Long: `List recorded analysis runs, newest first.

History needs DATABASE_URL or SMARTTASK_LOCAL=true.

Examples:
  smarttask history
  smarttask history --limit 5
  smarttask history show 3f1c2a9e-...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ListRunsHandler == nil {
			return errors.New("application not initialized")
		}
		if historyLimit < 0 {
			return errors.New("--limit must not be negative")
		}

		runs, err := app.ListRunsHandler.Handle(cmd.Context(), queries.ListRunsQuery{Limit: historyLimit})
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		out := cmd.OutOrStdout()
		if historyJSON {
			return writeJSON(out, runs)
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No analysis runs recorded.")
			return nil
		}
		fmt.Fprintln(out, renderRuns(runs))
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the ranking of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.GetRunHandler == nil {
			return errors.New("application not initialized")
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid run id: %w", err)
		}

		run, err := app.GetRunHandler.Handle(cmd.Context(), queries.GetRunQuery{ID: id})
		if err != nil {
			return fmt.Errorf("failed to load run: %w", err)
		}

		out := cmd.OutOrStdout()
		if historyJSON {
			return writeJSON(out, run)
		}
		fmt.Fprintln(out, strategyLine(run.Strategy, run.AppliedStrategy))
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("Run %s, %s, %d tasks", run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04"), run.TotalTasks)))
		fmt.Fprintln(out, renderRanking(run.Results, Verbose()))
		if len(run.Cycles) > 0 {
			fmt.Fprint(out, renderCycles(run.Cycles, nil))
		}
		return nil
	},
}

func init() {
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "print JSON instead of a table")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "max number of runs to show (default 20)")
	historyCmd.AddCommand(historyShowCmd)

	rootCmd.AddCommand(historyCmd)
}
