package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/commands"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/queries"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/services"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/infrastructure/cache"
	sharedApplication "github.com/Elangosridhar/Smarttask-analysis/internal/shared/application"
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/database"
	_ "github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/eventbus"
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/outbox"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/config"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry

	// Run history. All nil when history is disabled.
	DBConn     database.Connection
	RunRepo    domain.RunRepository
	OutboxRepo outbox.Repository
	UnitOfWork sharedApplication.UnitOfWork

	// Redis
	RedisClient *redis.Client

	// ResultCache is nil when caching is disabled.
	ResultCache cache.ResultCache

	// Publishers
	EventPublisher eventbus.Publisher

	// Scorers holds the active strategy table. Reloads swap it in place.
	Scorers *services.AtomicScorer

	// Command Handlers
	AnalyzeTasksHandler *commands.AnalyzeTasksHandler

	// Query Handlers
	SuggestTasksHandler   *queries.SuggestTasksHandler
	ListStrategiesHandler *queries.ListStrategiesHandler
	ListRunsHandler       *queries.ListRunsHandler
	GetRunHandler         *queries.GetRunHandler

	// OutboxProcessor relays stored events. Nil without history.
	OutboxProcessor *outbox.Processor

	pluginStrategies []domain.Strategy
}

// NewContainer creates a container from the environment configuration.
// Optional services that cannot be reached fall back to local
// implementations in development and fail startup elsewhere.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	return newContainer(ctx, cfg, logger, false)
}

// NewLocalContainer creates a container for local mode: run history in
// SQLite, the in-process cache and a noop publisher. An empty database URL
// selects the default SQLite file.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	return newContainer(ctx, cfg, logger, true)
}

// New creates a local container when cfg.LocalMode is set and a regular one
// otherwise.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if cfg != nil && cfg.LocalMode {
		return NewLocalContainer(ctx, cfg, logger)
	}
	return NewContainer(ctx, cfg, logger)
}

func newContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, local bool) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}
	c.Health.Register("scorer", observability.StaticChecker("strategies loaded"))

	if err := c.initHistory(ctx, local); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initCache(ctx, local); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initPublisher(local); err != nil {
		c.Close()
		return nil, err
	}

	c.pluginStrategies = c.loadPluginStrategies(ctx)
	table, err := c.BuildStrategyTable()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to build strategy table: %w", err)
	}
	c.Scorers = services.NewAtomicScorer(services.NewScorer(table))

	c.wireHandlers()

	logger.Info("container initialized",
		"local", local,
		"history", c.RunRepo != nil,
		"cache", c.ResultCache != nil,
		"strategies", len(table.Names()),
		"default_strategy", table.Default().Name,
	)

	return c, nil
}

func (c *Container) initHistory(ctx context.Context, local bool) error {
	url := c.Config.DatabaseURL
	driver := database.Driver(c.Config.DatabaseDriver)
	if local {
		if url != "" && database.DetectDriver(url) != database.DriverSQLite {
			return fmt.Errorf("local mode needs a SQLite database, got %s", url)
		}
		driver = database.DriverSQLite
		url = database.SQLitePath(url)
	} else if url == "" {
		c.Logger.Info("DATABASE_URL not set, run history disabled")
		return nil
	}

	conn, err := database.NewConnection(ctx, database.Config{Driver: driver, URL: url})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.Logger.Info("connected to database", "driver", conn.Driver())

	factory := NewRepositoryFactory(conn)
	if err := factory.Migrate(ctx); err != nil {
		return err
	}
	c.RunRepo = factory.RunRepository()
	c.OutboxRepo = factory.OutboxRepository()
	c.UnitOfWork = factory.UnitOfWork()

	c.Health.Register("database", observability.PingChecker("database", observability.HealthStatusUnhealthy, conn.Ping))
	return nil
}

func (c *Container) initCache(ctx context.Context, local bool) error {
	if !c.Config.CacheEnabled {
		c.Logger.Info("result cache disabled")
		return nil
	}

	if local || c.Config.RedisURL == "" {
		c.ResultCache = cache.NewMemoryResultCache(c.Config.CacheTTL)
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, using in-memory cache", observability.ErrorKey, err)
		c.ResultCache = cache.NewMemoryResultCache(c.Config.CacheTTL)
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, using in-memory cache", observability.ErrorKey, err)
		c.ResultCache = cache.NewMemoryResultCache(c.Config.CacheTTL)
		return nil
	}

	c.RedisClient = client
	redisCache := cache.NewRedisResultCache(client, c.Config.CacheTTL, cache.DefaultBreakerConfig(), c.Logger)
	c.ResultCache = redisCache
	c.Health.Register("redis", observability.PingChecker("redis", observability.HealthStatusDegraded, redisCache.Ping))
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) initPublisher(local bool) error {
	if local || c.Config.RabbitMQURL == "" {
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, "", c.Logger)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return err
		}
		c.Logger.Warn("RabbitMQ not available, using noop publisher", observability.ErrorKey, err)
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return nil
	}

	c.EventPublisher = publisher
	c.Health.Register("rabbitmq", observability.PingChecker("rabbitmq", observability.HealthStatusDegraded, publisher.Ping))
	return nil
}

func (c *Container) wireHandlers() {
	c.AnalyzeTasksHandler = commands.NewAnalyzeTasksHandler(
		c.Scorers,
		c.RunRepo,
		c.OutboxRepo,
		c.UnitOfWork,
		c.ResultCache,
		c.Metrics,
		c.Logger,
	)
	c.SuggestTasksHandler = queries.NewSuggestTasksHandler(c.Scorers, c.Config.DefaultTopN, c.Metrics, c.Logger)
	c.ListStrategiesHandler = queries.NewListStrategiesHandler(c.Scorers)
	c.ListRunsHandler = queries.NewListRunsHandler(c.RunRepo)
	c.GetRunHandler = queries.NewGetRunHandler(c.RunRepo)

	if c.OutboxRepo != nil {
		c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
			PollInterval:     c.Config.OutboxPollInterval,
			BatchSize:        c.Config.OutboxBatchSize,
			MaxRetries:       c.Config.OutboxMaxRetries,
			RetryBackoffBase: outbox.DefaultProcessorConfig().RetryBackoffBase,
			RetryBackoffMax:  outbox.DefaultProcessorConfig().RetryBackoffMax,
		}, c.Logger).WithMetrics(c.Metrics)
	}
}

// Close releases all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", observability.ErrorKey, err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close Redis client", observability.ErrorKey, err)
		}
	}
	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("failed to close database", observability.ErrorKey, err)
		}
	}
}
