package config

import (
	"context"

	"github.com/trebuchet-org/sling/internal/config"
	domainconfig "github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// NetworkResolverAdapter adapts the config.NetworkResolver to the usecase.NetworkResolver interface
type NetworkResolverAdapter struct {
	resolver *config.NetworkResolver
}

// NewNetworkResolverAdapter creates a new adapter
func NewNetworkResolverAdapter(resolver *config.NetworkResolver) *NetworkResolverAdapter {
	return &NetworkResolverAdapter{
		resolver: resolver,
	}
}

// GetNetworks returns all configured network names
func (a *NetworkResolverAdapter) GetNetworks(ctx context.Context) []string {
	return a.resolver.Names()
}

// ResolveNetwork resolves a network name to its configuration, asking the node for its chain ID
func (a *NetworkResolverAdapter) ResolveNetwork(ctx context.Context, networkName string) (*domainconfig.Network, error) {
	return a.resolver.Resolve(ctx, networkName)
}

// ExplorerURL returns the block explorer of a connected network
func (a *NetworkResolverAdapter) ExplorerURL(network *domainconfig.Network) string {
	if network == nil {
		return ""
	}
	return a.resolver.ExplorerURL(network.Name, network.ChainID)
}

// Ensure the adapter implements the interface
var _ usecase.NetworkResolver = (*NetworkResolverAdapter)(nil)
