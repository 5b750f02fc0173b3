package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/commands"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
)

var (
	analyzeFile     string
	analyzeStrategy string
	analyzeToday    string
	analyzeJSON     bool
)

// analyzeOutput mirrors the HTTP analyze response.
type analyzeOutput struct {
	Strategy             string                `json:"strategy"`
	Tasks                []domain.ScoredResult `json:"tasks"`
	TotalTasks           int                   `json:"total_tasks"`
	CircularDependencies []domain.Cycle        `json:"circular_dependencies"`
	RunID                *uuid.UUID            `json:"run_id,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank tasks by priority",
	Long: `Rank every task in a JSON file and explain each score.

The file holds either a JSON array of tasks or an object with "tasks" and an
optional "strategy". Use --file - to read from stdin.

Examples:
  smarttask analyze --file tasks.json
  smarttask analyze --file tasks.json --strategy deadline_driven
  cat tasks.json | smarttask analyze --file - --json
  smarttask analyze --file tasks.json --today 2025-03-10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.AnalyzeTasksHandler == nil {
			return errors.New("application not initialized")
		}
		if analyzeFile == "" {
			return errors.New("--file is required (use - for stdin)")
		}

		input, err := readTasks(cmd.InOrStdin(), analyzeFile)
		if err != nil {
			return err
		}
		today, err := parseToday(analyzeToday)
		if err != nil {
			return err
		}

		strategy := input.Strategy
		if analyzeStrategy != "" {
			strategy = analyzeStrategy
		}

		result, err := app.AnalyzeTasksHandler.Handle(cmd.Context(), commands.AnalyzeTasksCommand{
			Tasks:    input.Tasks,
			Strategy: strategy,
			Source:   domain.SourceCLI,
			Today:    today,
		})
		if err != nil {
			return fmt.Errorf("failed to analyze tasks: %w", err)
		}

		analysis := result.Analysis
		out := cmd.OutOrStdout()
		if analyzeJSON {
			return writeJSON(out, analyzeOutput{
				Strategy:             analysis.Strategy,
				Tasks:                analysis.Results,
				TotalTasks:           len(input.Tasks),
				CircularDependencies: analysis.Cycles,
				RunID:                result.RunID,
			})
		}

		fmt.Fprintln(out, strategyLine(analysis.Strategy, analysis.AppliedStrategy))
		if len(analysis.Results) == 0 {
			fmt.Fprintln(out, "No tasks to analyze.")
			return nil
		}
		fmt.Fprintln(out, renderRanking(analysis.Results, Verbose()))
		if cycles := renderCycles(analysis.Cycles, input.Tasks); cycles != "" {
			fmt.Fprint(out, cycles)
		}
		if result.RunID != nil {
			fmt.Fprintln(out, dimStyle.Render("Run: "+result.RunID.String()))
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "tasks JSON file (- for stdin)")
	analyzeCmd.Flags().StringVarP(&analyzeStrategy, "strategy", "s", "", "scoring strategy (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeToday, "today", "", "score as of this date (YYYY-MM-DD)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print JSON instead of a table")

	rootCmd.AddCommand(analyzeCmd)
}
