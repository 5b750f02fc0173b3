package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/queries"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/infrastructure/strategyfile"
)

var strategiesJSON bool

var strategiesCmd = &cobra.Command{
	Use:     "strategies",
	Short:   "List scoring strategies",
	Aliases: []string{"strategy"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ListStrategiesHandler == nil {
			return errors.New("application not initialized")
		}

		strategies, err := app.ListStrategiesHandler.Handle(cmd.Context(), queries.ListStrategiesQuery{})
		if err != nil {
			return fmt.Errorf("failed to list strategies: %w", err)
		}

		out := cmd.OutOrStdout()
		if strategiesJSON {
			return writeJSON(out, strategies)
		}
		fmt.Fprintln(out, renderStrategies(strategies))
		fmt.Fprintln(out, dimStyle.Render("* default strategy"))
		return nil
	},
}

var strategiesCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a strategy file against the built-in strategies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := strategyfile.Load(args[0])
		if err != nil {
			return err
		}
		table, err := file.Apply(domain.DefaultStrategyTable())
		if err != nil {
			return fmt.Errorf("strategy file %s is invalid: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s defines %d strategies, default %s\n", args[0], len(file.Strategies), table.Default().Name)
		for _, s := range file.StrategyList() {
			w := s.Weights
			line := fmt.Sprintf("  %s: urgency=%s importance=%s effort=%s dependency=%s",
				s.Name, formatScore(w.Urgency), formatScore(w.Importance), formatScore(w.Effort), formatScore(w.Dependency))
			if _, builtin := domain.DefaultStrategyTable().Lookup(s.Name); builtin {
				line += warnStyle.Render(" (overrides built-in)")
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	strategiesCmd.Flags().BoolVar(&strategiesJSON, "json", false, "print JSON instead of a table")
	strategiesCmd.AddCommand(strategiesCheckCmd)

	rootCmd.AddCommand(strategiesCmd)
}
