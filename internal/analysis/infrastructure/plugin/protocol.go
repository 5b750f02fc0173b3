// Package plugin loads scoring strategies from external provider binaries
// using HashiCorp's go-plugin over net/rpc.
package plugin

import (
	"fmt"
	"net/rpc"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/hashicorp/go-plugin"
)

// HandshakeConfig is shared by the host and every provider binary.
var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SMARTTASK_STRATEGY_PLUGIN",
	MagicCookieValue: "smarttask-strategy-v1",
}

// PluginName is the key providers are dispensed under.
const PluginName = "strategies"

// Definition is one strategy offered by a provider.
type Definition struct {
	Name        string
	Description string
	Urgency     float64
	Importance  float64
	Effort      float64
	Dependency  float64
}

// Weights returns the definition's weights.
func (d Definition) Weights() domain.Weights {
	return domain.Weights{
		Urgency:    d.Urgency,
		Importance: d.Importance,
		Effort:     d.Effort,
		Dependency: d.Dependency,
	}
}

// StrategyProvider is implemented by provider binaries.
type StrategyProvider interface {
	Strategies() ([]Definition, error)
}

// PluginMap returns the plugin set served or dispensed for impl. The host
// passes nil.
func PluginMap(impl StrategyProvider) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginName: &ProviderPlugin{Impl: impl},
	}
}

// ProviderPlugin is the plugin.Plugin implementation for strategy providers.
type ProviderPlugin struct {
	Impl StrategyProvider
}

// Server returns the provider-side RPC server.
func (p *ProviderPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	if p.Impl == nil {
		return nil, fmt.Errorf("strategy provider has no implementation")
	}
	return &RPCServer{Impl: p.Impl}, nil
}

// Client returns the host-side RPC client.
func (p *ProviderPlugin) Client(_ *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &RPCClient{client: c}, nil
}

// StrategiesResponse carries a provider's strategies over RPC.
type StrategiesResponse struct {
	Strategies []Definition
}

// RPCClient is the host-side StrategyProvider.
type RPCClient struct {
	client *rpc.Client
}

// Strategies calls the provider.
func (c *RPCClient) Strategies() ([]Definition, error) {
	var resp StrategiesResponse
	if err := c.client.Call("Plugin.Strategies", new(interface{}), &resp); err != nil {
		return nil, err
	}
	return resp.Strategies, nil
}

// RPCServer exposes a StrategyProvider over net/rpc.
type RPCServer struct {
	Impl StrategyProvider
}

// Strategies is the RPC entry point.
func (s *RPCServer) Strategies(_ interface{}, resp *StrategiesResponse) error {
	defs, err := s.Impl.Strategies()
	if err != nil {
		return err
	}
	resp.Strategies = defs
	return nil
}
