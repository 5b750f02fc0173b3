package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/services"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/infrastructure/cache"
	sharedApplication "github.com/Elangosridhar/Smarttask-analysis/internal/shared/application"
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/outbox"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
	"github.com/google/uuid"
)

// AnalyzeTasksCommand contains the tasks to rank and the strategy to rank by.
// A zero Today ranks against the scorer's clock.
type AnalyzeTasksCommand struct {
	Tasks    []domain.Task
	Strategy string
	Source   string
	Today    time.Time
}

// CommandName implements application.Command.
func (AnalyzeTasksCommand) CommandName() string { return "analyze_tasks" }

var _ sharedApplication.CommandHandler[AnalyzeTasksCommand, *AnalyzeTasksResult] = (*AnalyzeTasksHandler)(nil)

// AnalyzeTasksResult contains the ranked tasks. RunID is set when the run was
// recorded in history.
type AnalyzeTasksResult struct {
	Analysis domain.Analysis
	RunID    *uuid.UUID
	Cached   bool
}

// AnalyzeTasksHandler handles the AnalyzeTasksCommand. Every collaborator
// except the scorer is optional.
type AnalyzeTasksHandler struct {
	scorers    services.ScorerSource
	runRepo    domain.RunRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	cache      cache.ResultCache
	metrics    observability.Metrics
	logger     *slog.Logger
}

// NewAnalyzeTasksHandler creates a new AnalyzeTasksHandler.
func NewAnalyzeTasksHandler(
	scorers services.ScorerSource,
	runRepo domain.RunRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	resultCache cache.ResultCache,
	metrics observability.Metrics,
	logger *slog.Logger,
) *AnalyzeTasksHandler {
	if scorers == nil {
		scorers = services.NewScorer(nil)
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeTasksHandler{
		scorers:    scorers,
		runRepo:    runRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		cache:      resultCache,
		metrics:    metrics,
		logger:     logger,
	}
}

// Handle executes the AnalyzeTasksCommand.
func (h *AnalyzeTasksHandler) Handle(ctx context.Context, cmd AnalyzeTasksCommand) (*AnalyzeTasksResult, error) {
	if err := domain.ValidateTasks(cmd.Tasks); err != nil {
		h.metrics.Counter(observability.MetricAnalysisInvalid, 1)
		h.logger.InfoContext(ctx, "rejected invalid tasks", observability.ErrorKey, err.Error())
		return nil, err
	}

	scorer := h.scorers.Current()
	if !cmd.Today.IsZero() {
		scorer = scorer.At(cmd.Today)
	}
	if cmd.Strategy == "" {
		cmd.Strategy = scorer.Strategies().Default().Name
	}
	applied := scorer.Strategies().Resolve(cmd.Strategy)
	tags := []observability.Tag{observability.T("strategy", applied.Name)}

	h.logger.DebugContext(ctx, "analyzing tasks",
		observability.StrategyKey, cmd.Strategy,
		"applied_strategy", applied.Name,
		"task_count", len(cmd.Tasks),
	)

	analysis, cached, cacheKey := h.lookup(ctx, scorer, cmd, applied)
	if !cached {
		timer := observability.StartTimer("analysis.analyze").
			WithLogger(h.logger).
			WithMetrics(h.metrics).
			WithTags(tags...)
		var err error
		analysis, err = scorer.Analyze(cmd.Tasks, cmd.Strategy)
		elapsed := timer.StopWithError(ctx, err)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				h.metrics.Counter(observability.MetricAnalysisInvalid, 1)
			}
			return nil, err
		}
		h.metrics.Timing(observability.MetricAnalysisDuration, elapsed, tags...)
	}

	result := &AnalyzeTasksResult{Analysis: analysis, Cached: cached}

	runID, err := h.record(ctx, analysis, cmd.Source)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to record analysis run", observability.ErrorKey, err.Error())
		return nil, err
	}
	result.RunID = runID

	if !cached && h.cache != nil && cacheKey != "" {
		if err := h.cache.Set(ctx, cacheKey, analysis); err != nil {
			h.logger.WarnContext(ctx, "failed to cache analysis", observability.ErrorKey, err.Error())
		}
	}

	if analysis.HasCycles() {
		h.logger.WarnContext(ctx, "circular dependencies detected",
			"cycle_count", len(analysis.Cycles),
			"cycles", analysis.Cycles,
		)
		h.metrics.Counter(observability.MetricAnalysisCycles, int64(len(analysis.Cycles)), tags...)
	}

	h.metrics.Counter(observability.MetricAnalysisRuns, 1, tags...)
	h.metrics.Histogram(observability.MetricAnalysisTasks, float64(len(cmd.Tasks)), tags...)

	h.logger.InfoContext(ctx, "analysis completed",
		observability.StrategyKey, analysis.AppliedStrategy,
		"task_count", len(analysis.Results),
		"cached", cached,
	)

	return result, nil
}

// lookup returns a cached analysis when there is one. The returned key is
// empty when caching is off or the key could not be derived.
func (h *AnalyzeTasksHandler) lookup(ctx context.Context, scorer *services.Scorer, cmd AnalyzeTasksCommand, applied domain.Strategy) (domain.Analysis, bool, string) {
	if h.cache == nil {
		return domain.Analysis{}, false, ""
	}

	key, err := cache.Key(cmd.Strategy, applied, scorer.Today(), cmd.Tasks)
	if err != nil {
		h.logger.WarnContext(ctx, "cache key unavailable", observability.ErrorKey, err.Error())
		return domain.Analysis{}, false, ""
	}

	if analysis, ok := h.cache.Get(ctx, key); ok {
		h.metrics.Counter(observability.MetricCacheHits, 1)
		return analysis, true, key
	}
	h.metrics.Counter(observability.MetricCacheMisses, 1)
	return domain.Analysis{}, false, key
}

// record saves the run and its events in one unit of work.
func (h *AnalyzeTasksHandler) record(ctx context.Context, analysis domain.Analysis, source string) (*uuid.UUID, error) {
	if h.runRepo == nil {
		return nil, nil
	}
	if source == "" {
		source = domain.SourceAPI
	}

	var runID uuid.UUID
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		run, err := domain.NewAnalysisRun(analysis, source)
		if err != nil {
			return err
		}

		if err := h.runRepo.Save(txCtx, run); err != nil {
			return err
		}

		if h.outboxRepo != nil {
			events := run.DomainEvents()
			sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(txCtx, source))

			msgs, err := outbox.NewMessages(events)
			if err != nil {
				return err
			}
			if err := h.outboxRepo.SaveBatch(txCtx, msgs); err != nil {
				return err
			}
		}

		run.ClearDomainEvents()
		runID = run.ID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &runID, nil
}
