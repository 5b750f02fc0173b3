package app

import (
	"context"
	"errors"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/application/services"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/infrastructure/plugin"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/infrastructure/strategyfile"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
)

// ErrNoStrategyFile is returned by WatchStrategies when no strategy file is configured.
var ErrNoStrategyFile = errors.New("no strategy file configured")

// BuildStrategyTable layers plugin strategies and then the strategy file over
// the built-ins. The file's default wins over the configured default.
func (c *Container) BuildStrategyTable() (*domain.StrategyTable, error) {
	all := domain.BuiltinStrategies()
	all = append(all, c.pluginStrategies...)

	defaultName := c.Config.DefaultStrategy
	if c.Config.StrategyFile != "" {
		file, err := strategyfile.Load(c.Config.StrategyFile)
		if err != nil {
			return nil, err
		}
		all = append(all, file.StrategyList()...)
		if file.Default != "" {
			defaultName = file.Default
		}
	}

	return domain.NewStrategyTable(defaultName, all...)
}

// ReloadStrategies rebuilds the strategy table and swaps in a new scorer.
// On failure the current scorer stays active.
func (c *Container) ReloadStrategies(ctx context.Context) error {
	table, err := c.BuildStrategyTable()
	if err != nil {
		c.Metrics.Counter(observability.MetricStrategyReloads, 1, observability.T("result", "error"))
		return err
	}
	c.Scorers.Swap(services.NewScorer(table))
	c.Metrics.Counter(observability.MetricStrategyReloads, 1, observability.T("result", "ok"))
	c.Logger.InfoContext(ctx, "strategy table swapped",
		"strategies", len(table.Names()),
		"default_strategy", table.Default().Name,
	)
	return nil
}

// WatchStrategies reloads the strategy file whenever it changes until ctx is
// cancelled.
func (c *Container) WatchStrategies(ctx context.Context) error {
	if c.Config.StrategyFile == "" {
		return ErrNoStrategyFile
	}
	return strategyfile.NewWatcher(c.Config.StrategyFile, c.ReloadStrategies, c.Logger).Run(ctx)
}

// loadPluginStrategies runs every plugin binary once. Plugins that fail are
// logged and skipped.
func (c *Container) loadPluginStrategies(ctx context.Context) []domain.Strategy {
	if len(c.Config.StrategyPluginPaths) == 0 {
		return nil
	}

	loader := plugin.NewLoader(c.Logger, c.Config.PluginTimeout)
	strategies, err := loader.LoadStrategies(ctx, c.Config.StrategyPluginPaths)
	if err != nil {
		c.Logger.WarnContext(ctx, "strategy plugins unavailable", observability.ErrorKey, err)
		return nil
	}
	return strategies
}
