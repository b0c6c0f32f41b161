package usecase

import (
	"context"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct{}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents the status of a network. Error is set when the
// node could not be reached.
type NetworkStatus struct {
	Name        string
	RPCURL      string
	ChainID     uint64
	ExplorerURL string
	Error       error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	resolver NetworkResolver
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver) *ListNetworks {
	return &ListNetworks{
		resolver: resolver,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	networkNames := uc.resolver.GetNetworks(ctx)

	networks := make([]NetworkStatus, 0, len(networkNames))
	for _, name := range networkNames {
		status := NetworkStatus{
			Name: name,
		}

		// An unreachable network is reported, not fatal. Its chain ID, if any,
		// comes from an earlier run.
		info, err := uc.resolver.ResolveNetwork(ctx, name)
		status.Error = err
		if info != nil {
			status.RPCURL = info.RPCURL
			status.ChainID = info.ChainID
			status.ExplorerURL = info.ExplorerURL
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
	}, nil
}
