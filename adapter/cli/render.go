package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/queries"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))

	tierStyles = map[domain.Tier]lipgloss.Style{
		domain.TierHigh:   cellStyle.Foreground(lipgloss.Color("196")),
		domain.TierMedium: cellStyle.Foreground(lipgloss.Color("214")),
		domain.TierLow:    cellStyle.Foreground(lipgloss.Color("42")),
	}
)

// tierColumn is the column index of the tier in the ranking table.
const tierColumn = 3

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

// renderRanking draws ranked results. Verbose adds the component scores.
func renderRanking(results []domain.ScoredResult, verbose bool) string {
	headers := []string{"#", "Task", "Score", "Tier", "Due", "Explanation"}
	if verbose {
		headers = append(headers, "U", "I", "E", "D")
	}

	rows := make([][]string, 0, len(results))
	tiers := make([]domain.Tier, 0, len(results))
	for i, r := range results {
		row := []string{
			strconv.Itoa(i + 1),
			r.Task.Title,
			formatScore(r.FinalScore),
			string(r.Tier),
			r.Task.DueDate.String(),
			r.Explanation,
		}
		if verbose {
			row = append(row,
				formatScore(r.ComponentScores.Urgency),
				formatScore(r.ComponentScores.Importance),
				formatScore(r.ComponentScores.Effort),
				formatScore(r.ComponentScores.Dependency),
			)
		}
		rows = append(rows, row)
		tiers = append(tiers, r.Tier)
	}

	return newTable(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == tierColumn && row >= 0 && row < len(tiers) {
				if style, ok := tierStyles[tiers[row]]; ok {
					return style
				}
			}
			return cellStyle
		}).
		String()
}

// renderCycles names the tasks in each cycle. Cycle entries are task
// positions; without the task list they print as bare positions.
func renderCycles(cycles []domain.Cycle, tasks []domain.Task) string {
	if len(cycles) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(warnStyle.Render(fmt.Sprintf("Circular dependencies (%d):", len(cycles))))
	b.WriteString("\n")
	for _, cycle := range cycles {
		names := make([]string, 0, len(cycle)+1)
		for _, pos := range cycle {
			names = append(names, cycleNode(tasks, pos))
		}
		names = append(names, cycleNode(tasks, cycle[0]))
		b.WriteString("  " + strings.Join(names, " -> ") + "\n")
	}
	return b.String()
}

func cycleNode(tasks []domain.Task, pos int) string {
	if pos >= 0 && pos < len(tasks) {
		return fmt.Sprintf("%s [%d]", tasks[pos].Title, pos)
	}
	return strconv.Itoa(pos)
}

func renderStrategies(strategies []queries.StrategyDTO) string {
	rows := make([][]string, 0, len(strategies))
	for _, s := range strategies {
		name := s.Name
		if s.Default {
			name += " *"
		}
		rows = append(rows, []string{
			name,
			formatScore(s.Weights.Urgency),
			formatScore(s.Weights.Importance),
			formatScore(s.Weights.Effort),
			formatScore(s.Weights.Dependency),
			s.Source,
			s.Description,
		})
	}

	return newTable("Strategy", "Urgency", "Importance", "Effort", "Dependency", "Source", "Description").
		Rows(rows...).
		StyleFunc(headerOrCell).
		String()
}

func renderRuns(runs []queries.RunDTO) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		top := ""
		if len(r.TopTitles) > 0 {
			top = r.TopTitles[0]
		}
		rows = append(rows, []string{
			r.ID.String()[:8],
			r.CreatedAt.Local().Format(time.DateTime),
			r.AppliedStrategy,
			strconv.Itoa(r.TotalTasks),
			strconv.Itoa(len(r.Cycles)),
			r.Source,
			top,
		})
	}

	return newTable("Run", "Created", "Strategy", "Tasks", "Cycles", "Source", "Top task").
		Rows(rows...).
		StyleFunc(headerOrCell).
		String()
}

func headerOrCell(row, _ int) lipgloss.Style {
	if row == table.HeaderRow {
		return headerStyle
	}
	return cellStyle
}

func strategyLine(requested, applied string) string {
	if requested == "" || requested == applied {
		return titleStyle.Render("Strategy: " + applied)
	}
	return titleStyle.Render(fmt.Sprintf("Strategy: %s", applied)) +
		dimStyle.Render(fmt.Sprintf(" (requested %q is unknown)", requested))
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
