// Package strategysdk is the public helper for building strategy provider
// plugins. A provider binary implements Provider and calls Serve from main:
//
//	func main() {
//		strategysdk.Serve(strategysdk.Static(
//			strategysdk.Definition{Name: "focus", Importance: 0.8, Urgency: 0.2},
//		))
//	}
package strategysdk

import (
	"encoding/json"
	"fmt"
	"os"

	strategyplugin "github.com/Elangosridhar/Smarttask-analysis/internal/analysis/infrastructure/plugin"
	"github.com/hashicorp/go-plugin"
)

// ConfigEnv holds JSON configuration passed to provider binaries.
const ConfigEnv = "SMARTTASK_PLUGIN_CONFIG"

// Definition is one strategy offered by a provider.
type Definition = strategyplugin.Definition

// Provider supplies strategy definitions.
type Provider = strategyplugin.StrategyProvider

// Serve runs provider as a plugin. It blocks until the host disconnects.
func Serve(provider Provider) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: strategyplugin.HandshakeConfig,
		Plugins:         strategyplugin.PluginMap(provider),
	})
}

// StaticProvider serves a fixed set of definitions.
type StaticProvider []Definition

// Static creates a StaticProvider.
func Static(defs ...Definition) StaticProvider {
	return StaticProvider(defs)
}

// Strategies implements Provider.
func (s StaticProvider) Strategies() ([]Definition, error) {
	return []Definition(s), nil
}

// Validate checks provider output the way the host will.
func Validate(provider Provider) error {
	defs, err := provider.Strategies()
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return fmt.Errorf("strategy without a name")
		}
		if seen[def.Name] {
			return fmt.Errorf("strategy %s defined twice", def.Name)
		}
		seen[def.Name] = true
		if err := def.Weights().Validate(); err != nil {
			return fmt.Errorf("strategy %s: %w", def.Name, err)
		}
	}
	return nil
}

// LoadConfig decodes ConfigEnv into a map. An unset variable yields an empty map.
func LoadConfig() (map[string]float64, error) {
	config := make(map[string]float64)
	raw := os.Getenv(ConfigEnv)
	if raw == "" {
		return config, nil
	}
	if err := json.Unmarshal([]byte(raw), &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigEnv, err)
	}
	return config, nil
}
