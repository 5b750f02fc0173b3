package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/hashicorp/go-plugin"
)

// DefaultTimeout bounds plugin start-up and the Strategies call.
const DefaultTimeout = 10 * time.Second

// SourcePrefix tags strategies by the binary that provided them.
const SourcePrefix = "plugin:"

// Loader launches provider binaries, collects their strategies and stops
// them again. Nothing stays running after a load.
type Loader struct {
	logger  *slog.Logger
	timeout time.Duration
}

// NewLoader creates a new plugin loader.
func NewLoader(logger *slog.Logger, timeout time.Duration) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Loader{logger: logger, timeout: timeout}
}

// Discover expands paths into provider binaries. Directories contribute
// their executable regular files; missing paths are skipped.
func (l *Loader) Discover(paths []string) ([]string, error) {
	var binaries []string
	seen := make(map[string]bool)

	for _, path := range paths {
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			l.logger.Warn("plugin path does not exist", "path", path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat plugin path %s: %w", path, err)
		}

		candidates := []string{path}
		if info.IsDir() {
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("read plugin dir %s: %w", path, err)
			}
			candidates = candidates[:0]
			for _, entry := range entries {
				if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
					continue
				}
				candidates = append(candidates, filepath.Join(path, entry.Name()))
			}
		}

		for _, candidate := range candidates {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return nil, fmt.Errorf("resolve plugin path %s: %w", candidate, err)
			}
			if seen[abs] || !isExecutable(abs) {
				continue
			}
			seen[abs] = true
			binaries = append(binaries, abs)
		}
	}

	sort.Strings(binaries)
	return binaries, nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

// LoadStrategies discovers and queries every provider under paths. A
// provider that fails is logged and skipped.
func (l *Loader) LoadStrategies(ctx context.Context, paths []string) ([]domain.Strategy, error) {
	binaries, err := l.Discover(paths)
	if err != nil {
		return nil, err
	}

	var strategies []domain.Strategy
	for _, binary := range binaries {
		loaded, err := l.Load(ctx, binary)
		if err != nil {
			l.logger.Error("failed to load strategy plugin",
				"binary", binary,
				"error", err,
			)
			continue
		}
		strategies = append(strategies, loaded...)
	}

	l.logger.Info("strategy plugins loaded",
		"plugins", len(binaries),
		"strategies", len(strategies),
	)
	return strategies, nil
}

// Load launches one provider binary and returns its strategies.
func (l *Loader) Load(ctx context.Context, binary string) ([]domain.Strategy, error) {
	path, err := validateBinaryPath(binary)
	if err != nil {
		return nil, err
	}

	// #nosec G204 -- path is validated by validateBinaryPath
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  HandshakeConfig,
		Plugins:          PluginMap(nil),
		Cmd:              exec.Command(path),
		Logger:           newHclogAdapter(l.logger),
		StartTimeout:     l.timeout,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
	})
	defer client.Kill()

	rpcClient, err := client.Client()
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", path, err)
	}

	raw, err := rpcClient.Dispense(PluginName)
	if err != nil {
		return nil, fmt.Errorf("dispense %s: %w", path, err)
	}

	provider, ok := raw.(StrategyProvider)
	if !ok {
		return nil, fmt.Errorf("%s does not provide strategies", path)
	}

	defs, err := l.fetch(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}

	return toStrategies(SourcePrefix+filepath.Base(path), defs)
}

func (l *Loader) fetch(ctx context.Context, provider StrategyProvider) ([]Definition, error) {
	type result struct {
		defs []Definition
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defs, err := provider.Strategies()
		done <- result{defs: defs, err: err}
	}()

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.defs, r.err
	case <-timer.C:
		return nil, fmt.Errorf("timed out after %s", l.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func toStrategies(source string, defs []Definition) ([]domain.Strategy, error) {
	strategies := make([]domain.Strategy, 0, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("%w: unnamed strategy from %s", domain.ErrInvalidStrategy, source)
		}
		weights := def.Weights()
		if err := weights.Validate(); err != nil {
			return nil, fmt.Errorf("strategy %s from %s: %w", def.Name, source, err)
		}
		strategies = append(strategies, domain.Strategy{
			Name:        def.Name,
			Description: def.Description,
			Source:      source,
			Weights:     weights,
		})
	}
	return strategies, nil
}

func validateBinaryPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("binary path cannot be empty")
	}

	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("binary path must be absolute: %s", path)
	}

	resolved, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		return "", fmt.Errorf("resolve binary path: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("binary not found: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("binary path is not a regular file: %s", resolved)
	}

	return resolved, nil
}
