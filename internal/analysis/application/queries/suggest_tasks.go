package queries

import (
	"context"
	"log/slog"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/services"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
)

// SuggestTasksQuery asks for the best tasks to work on next. With no tasks
// the built-in sample tasks are ranked.
type SuggestTasksQuery struct {
	Tasks    []domain.Task
	Strategy string
	TopN     int
	Today    time.Time
}

// QueryName implements application.Query.
func (SuggestTasksQuery) QueryName() string { return "suggest_tasks" }

// SuggestTasksResult wraps the suggestion.
type SuggestTasksResult struct {
	Suggestion domain.Suggestion
	UsedSample bool
}

// SuggestTasksHandler handles the SuggestTasksQuery.
type SuggestTasksHandler struct {
	scorers     services.ScorerSource
	defaultTopN int
	metrics     observability.Metrics
	logger      *slog.Logger
}

// NewSuggestTasksHandler creates a new SuggestTasksHandler. A non-positive
// defaultTopN falls back to services.DefaultTopN.
func NewSuggestTasksHandler(scorers services.ScorerSource, defaultTopN int, metrics observability.Metrics, logger *slog.Logger) *SuggestTasksHandler {
	if scorers == nil {
		scorers = services.NewScorer(nil)
	}
	if defaultTopN <= 0 {
		defaultTopN = services.DefaultTopN
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SuggestTasksHandler{
		scorers:     scorers,
		defaultTopN: defaultTopN,
		metrics:     metrics,
		logger:      logger,
	}
}

// Handle executes the SuggestTasksQuery.
func (h *SuggestTasksHandler) Handle(ctx context.Context, query SuggestTasksQuery) (*SuggestTasksResult, error) {
	scorer := h.scorers.Current()
	if !query.Today.IsZero() {
		scorer = scorer.At(query.Today)
	}

	strategy := query.Strategy
	if strategy == "" {
		strategy = scorer.Strategies().Default().Name
	}
	topN := query.TopN
	if topN <= 0 {
		topN = h.defaultTopN
	}

	tasks := query.Tasks
	usedSample := len(tasks) == 0
	if usedSample {
		tasks = domain.SampleTasks(scorer.Today())
	} else if err := domain.ValidateTasks(tasks); err != nil {
		h.metrics.Counter(observability.MetricAnalysisInvalid, 1)
		return nil, err
	}

	suggestion, err := observability.TimeOperationResult(ctx, h.logger, h.metrics, "analysis.suggest", func() (domain.Suggestion, error) {
		return scorer.SuggestTop(tasks, strategy, topN)
	})
	if err != nil {
		return nil, err
	}

	if len(suggestion.CircularDependencies) > 0 {
		h.logger.WarnContext(ctx, "circular dependencies detected",
			"cycle_count", len(suggestion.CircularDependencies),
		)
	}

	h.logger.DebugContext(ctx, "suggested tasks",
		observability.StrategyKey, strategy,
		"top_n", topN,
		"sample", usedSample,
	)

	return &SuggestTasksResult{Suggestion: suggestion, UsedSample: usedSample}, nil
}
