package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/domain"
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/eventbus"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
)

// ProcessorConfig holds configuration for the outbox processor.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
}

// DefaultProcessorConfig returns sensible defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     100 * time.Millisecond,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: 1 * time.Second,
		RetryBackoffMax:  1 * time.Minute,
	}
}

// Processor polls the outbox and publishes events to the message broker.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger
	metrics   observability.Metrics

	wg       sync.WaitGroup
	stopChan chan struct{}
	running  bool
	mu       sync.Mutex

	statsMu sync.Mutex
	stats   Stats
}

// NewProcessor creates a new outbox processor.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger,
		metrics:   observability.NoopMetrics{},
		stopChan:  make(chan struct{}),
	}
}

// WithMetrics counts published events in m.
func (p *Processor) WithMetrics(m observability.Metrics) *Processor {
	if m != nil {
		p.metrics = m
	}
	return p
}

// Start begins the polling loop in a goroutine.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.stopChan = make(chan struct{})
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(ctx)

	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
	)

	return nil
}

// Stop gracefully stops the processor.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("outbox processor stopped")
}

// IsRunning returns true if the processor is running.
func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Processor) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.ErrorContext(ctx, "failed to process outbox batch", observability.ErrorKey, err)
			}
		}
	}
}

// outcome is what happened to one message in a batch.
type outcome int

const (
	outcomePublished outcome = iota
	outcomeRetry
	outcomeDead
)

func (o outcome) String() string {
	switch o {
	case outcomePublished:
		return "published"
	case outcomeRetry:
		return "retry"
	default:
		return "dead"
	}
}

func (p *Processor) processBatch(ctx context.Context) error {
	messages, err := p.repo.GetUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		p.record(outcomeRetry, "", err, false)
		return err
	}

	p.recordProcessed(messages)

	for _, msg := range messages {
		p.deliver(ctx, msg)
	}
	return nil
}

// deliver publishes one message and moves it to its next state. Repository
// failures are logged; the message is picked up again on a later poll.
func (p *Processor) deliver(ctx context.Context, msg *Message) {
	pubErr := p.publisher.Publish(ctx, msg.RoutingKey, msg.Payload)
	if pubErr == nil {
		if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
			p.logger.ErrorContext(ctx, "failed to mark message as published",
				"id", msg.ID,
				"event_id", msg.EventID,
				observability.ErrorKey, err,
			)
			return
		}
		p.record(outcomePublished, msg.RoutingKey, nil, true)
		return
	}

	meta := p.metadata(msg)
	result := outcomeRetry
	if p.shouldDeadLetter(msg) {
		result = outcomeDead
	}
	p.logger.WarnContext(ctx, "failed to publish message",
		"id", msg.ID,
		"routing_key", msg.RoutingKey,
		"event_id", msg.EventID,
		"retry_count", msg.RetryCount,
		"outcome", result.String(),
		observability.CorrelationIDKey, meta.CorrelationID,
		observability.SourceKey, meta.Source,
		observability.ErrorKey, pubErr,
	)

	var markErr error
	if result == outcomeDead {
		markErr = p.repo.MarkDead(ctx, msg.ID, pubErr.Error())
	} else {
		nextRetryAt := time.Now().Add(p.retryBackoff(msg.RetryCount + 1))
		markErr = p.repo.MarkFailed(ctx, msg.ID, pubErr.Error(), nextRetryAt)
	}
	if markErr != nil {
		p.logger.ErrorContext(ctx, "failed to record publish failure",
			"id", msg.ID,
			"outcome", result.String(),
			observability.ErrorKey, markErr,
		)
	}
	p.record(result, msg.RoutingKey, pubErr, true)
}

func (p *Processor) shouldDeadLetter(msg *Message) bool {
	if p.config.MaxRetries <= 0 {
		return true
	}
	return msg.RetryCount+1 >= p.config.MaxRetries
}

// retryBackoff doubles from the base delay per attempt, capped at the max.
func (p *Processor) retryBackoff(attempt int) time.Duration {
	delay := p.config.RetryBackoffBase
	if delay <= 0 {
		delay = time.Second
	}
	ceiling := p.config.RetryBackoffMax
	if ceiling <= 0 {
		ceiling = time.Minute
	}

	for ; attempt > 1 && delay < ceiling; attempt-- {
		delay *= 2
	}
	return min(delay, ceiling)
}

func (p *Processor) metadata(msg *Message) domain.EventMetadata {
	var metadata domain.EventMetadata
	if len(msg.Metadata) > 0 {
		_ = json.Unmarshal(msg.Metadata, &metadata)
	}
	return metadata
}

// Cleanup deletes published messages past the retention window.
func (p *Processor) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	deleted, err := p.repo.DeleteOld(ctx, retentionDays)
	if err != nil {
		p.record(outcomeRetry, "", err, false)
		return 0, err
	}
	if deleted > 0 {
		p.logger.Info("outbox cleanup", "deleted", deleted, "retention_days", retentionDays)
	}
	return deleted, nil
}

// ProcessOnce processes a single batch synchronously.
func (p *Processor) ProcessOnce(ctx context.Context) error {
	return p.processBatch(ctx)
}

// Stats returns processor statistics.
type Stats struct {
	IsRunning       bool
	PublishedCount  uint64
	FailedCount     uint64
	DeadCount       uint64
	LagSeconds      float64
	LastError       string
	LastErrorAt     *time.Time
	LastProcessedAt *time.Time
	OldestMessageAt *time.Time
}

// GetStats returns current processor statistics.
func (p *Processor) GetStats() Stats {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()

	return Stats{
		IsRunning:       p.IsRunning(),
		PublishedCount:  p.stats.PublishedCount,
		FailedCount:     p.stats.FailedCount,
		DeadCount:       p.stats.DeadCount,
		LagSeconds:      p.stats.LagSeconds,
		LastError:       p.stats.LastError,
		LastErrorAt:     p.stats.LastErrorAt,
		LastProcessedAt: p.stats.LastProcessedAt,
		OldestMessageAt: p.stats.OldestMessageAt,
	}
}

// record updates the stats and metrics for one message. counted is false
// for errors that are not tied to a message, such as a failed poll.
func (p *Processor) record(result outcome, routingKey string, err error, counted bool) {
	if counted {
		if result == outcomePublished {
			p.metrics.Counter(observability.MetricEventsPublished, 1, observability.T("routing_key", routingKey))
		} else {
			p.metrics.Counter(observability.MetricEventsFailed, 1,
				observability.T("routing_key", routingKey),
				observability.T("outcome", result.String()),
			)
		}
	}

	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	if counted {
		switch result {
		case outcomePublished:
			p.stats.PublishedCount++
		case outcomeRetry:
			p.stats.FailedCount++
		case outcomeDead:
			p.stats.DeadCount++
		}
	}
	if err != nil {
		now := time.Now()
		p.stats.LastError = err.Error()
		p.stats.LastErrorAt = &now
	}
}

func (p *Processor) recordProcessed(messages []*Message) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	now := time.Now()
	p.stats.LastProcessedAt = &now
	if len(messages) == 0 {
		p.stats.LagSeconds = 0
		p.stats.OldestMessageAt = nil
		return
	}

	oldest := messages[0].CreatedAt
	for _, msg := range messages[1:] {
		if msg.CreatedAt.Before(oldest) {
			oldest = msg.CreatedAt
		}
	}
	p.stats.OldestMessageAt = &oldest
	p.stats.LagSeconds = now.Sub(oldest).Seconds()
	p.metrics.Gauge(observability.MetricOutboxLag, p.stats.LagSeconds)
}
