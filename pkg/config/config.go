package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// LocalMode keeps run history in SQLite and skips Redis and RabbitMQ.
	LocalMode bool

	// Run history. An empty URL disables persistence outside local mode.
	DatabaseURL    string
	DatabaseDriver string

	// Result cache. An empty Redis URL selects the in-process cache.
	RedisURL     string
	CacheEnabled bool
	CacheTTL     time.Duration

	// Event relay. An empty URL selects the noop publisher.
	RabbitMQURL string

	// Scoring
	DefaultStrategy     string
	DefaultTopN         int
	StrategyFile        string
	StrategyPluginPaths []string
	PluginTimeout       time.Duration

	// Servers
	HTTPAddr     string
	MCPAddr      string
	MCPAuthToken string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxStatsInterval    time.Duration
	OutboxProcessorEnabled bool

	// Worker
	WorkerHealthAddr string
}

// Load reads configuration from the environment, after loading a .env file
// when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LocalMode: getBoolEnv("SMARTTASK_LOCAL", false),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DatabaseDriver: getEnv("DATABASE_DRIVER", ""),

		RedisURL:     getEnv("REDIS_URL", ""),
		CacheEnabled: getBoolEnv("CACHE_ENABLED", true),
		CacheTTL:     getDurationEnv("CACHE_TTL", 5*time.Minute),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		DefaultStrategy:     getEnv("SMARTTASK_DEFAULT_STRATEGY", "smart_balance"),
		DefaultTopN:         getIntEnv("SMARTTASK_TOP_N", 3),
		StrategyFile:        getEnv("SMARTTASK_STRATEGY_FILE", ""),
		StrategyPluginPaths: getPathListEnv("SMARTTASK_PLUGIN_PATH"),
		PluginTimeout:       getDurationEnv("SMARTTASK_PLUGIN_TIMEOUT", 10*time.Second),

		HTTPAddr:     getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 100*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxStatsInterval:    getDurationEnv("OUTBOX_STATS_INTERVAL", time.Minute),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values that cannot work at runtime.
func (c *Config) Validate() error {
	if c.DefaultTopN < 1 {
		return fmt.Errorf("SMARTTASK_TOP_N must be at least 1, got %d", c.DefaultTopN)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	// A zero TTL never expires.
	if c.CacheEnabled && c.CacheTTL == 0 {
		return errors.New("CACHE_TTL must be positive while CACHE_ENABLED is true")
	}
	if c.OutboxBatchSize < 1 {
		return fmt.Errorf("OUTBOX_BATCH_SIZE must be at least 1, got %d", c.OutboxBatchSize)
	}
	return nil
}

// HistoryEnabled reports whether analysis runs are persisted.
func (c *Config) HistoryEnabled() bool {
	return c.LocalMode || c.DatabaseURL != ""
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getPathListEnv splits a PATH-style list on the OS list separator.
func getPathListEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	paths := []string{}
	for _, p := range filepath.SplitList(value) {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
