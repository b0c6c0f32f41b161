package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/samber/lo"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

const chainIDTimeout = 10 * time.Second

// NetworkResolver resolves network names to configurations with caching
type NetworkResolver struct {
	projectRoot   string
	foundryConfig *config.FoundryConfig
	cache         *NetworkCache
	fetchChainID  func(ctx context.Context, rpcURL string) (uint64, error)
	mu            sync.RWMutex
}

// NetworkCache remembers the chain ID each RPC URL last reported
type NetworkCache struct {
	RPCs      map[string]uint64 `json:"rpcs"` // rpcURL -> chainID
	UpdatedAt time.Time         `json:"updatedAt"`
}

func newNetworkCache() *NetworkCache {
	return &NetworkCache{
		RPCs:      make(map[string]uint64),
		UpdatedAt: time.Now(),
	}
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(projectRoot string, foundryConfig *config.FoundryConfig) *NetworkResolver {
	r := &NetworkResolver{
		projectRoot:   projectRoot,
		foundryConfig: foundryConfig,
		fetchChainID:  dialChainID,
	}
	r.loadCache()
	return r
}

// Names returns the configured network names, sorted, always including localhost
func (r *NetworkResolver) Names() []string {
	var names []string
	if r.foundryConfig != nil {
		names = lo.Keys(r.foundryConfig.RawRpcEndpoints)
	}
	if !slices.Contains(names, "localhost") {
		names = append(names, "localhost")
	}
	slices.Sort(names)
	return names
}

// Lookup resolves a network's endpoint without contacting it. The chain ID is left
// zero; the node reports it on connect.
func (r *NetworkResolver) Lookup(networkName string) (*config.Network, error) {
	rpcURL, err := rpcURLFor(r.foundryConfig, networkName)
	if err != nil {
		return nil, err
	}
	return &config.Network{Name: networkName, RPCURL: rpcURL}, nil
}

// Resolve resolves a network name to its configuration and asks the node for
// its chain ID. When the node cannot be reached the returned network still
// carries the last chain ID cached for its RPC URL, alongside the error.
func (r *NetworkResolver) Resolve(ctx context.Context, networkName string) (*config.Network, error) {
	network, err := r.Lookup(networkName)
	if err != nil {
		return nil, err
	}

	chainID, err := r.fetchChainID(ctx, network.RPCURL)
	if err != nil {
		r.mu.RLock()
		network.ChainID = r.cache.RPCs[network.RPCURL]
		r.mu.RUnlock()
		network.ExplorerURL = r.ExplorerURL(networkName, network.ChainID)
		return network, fmt.Errorf("failed to fetch chain ID for network %s: %w", networkName, err)
	}
	r.updateCache(network.RPCURL, chainID)

	network.ChainID = chainID
	network.ExplorerURL = r.ExplorerURL(networkName, chainID)
	return network, nil
}

func dialChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, chainIDTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, err
	}
	return chainID.Uint64(), nil
}

// ExplorerURL returns the block explorer for a network
func (r *NetworkResolver) ExplorerURL(networkName string, chainID uint64) string {
	// Check if configured in foundry.toml
	if r.foundryConfig != nil {
		if etherscan, exists := r.foundryConfig.Etherscan[networkName]; exists && etherscan.URL != "" {
			return etherscan.URL
		}
	}

	// Fallback to common defaults
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 17000:
		return "https://holesky.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 84532:
		return "https://sepolia.basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 43114:
		return "https://snowtrace.io"
	case 56:
		return "https://bscscan.com"
	case 42220:
		return "https://celoscan.io"
	case 44787:
		return "https://alfajores.celoscan.io"
	default:
		return ""
	}
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.projectRoot, "cache", "chainIds.json")
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = newNetworkCache()

	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		return
	}

	var cache NetworkCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return
	}
	if cache.RPCs != nil {
		r.cache.RPCs = cache.RPCs
	}
	r.cache.UpdatedAt = cache.UpdatedAt
}

// updateCache records the chain ID an RPC URL reported, writing only on change
func (r *NetworkResolver) updateCache(rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if known, ok := r.cache.RPCs[rpcURL]; ok && known == chainID {
		return
	}
	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()

	// Cache is only an optimisation
	_ = r.saveCache()
}

// saveCache saves the cache to disk
func (r *NetworkResolver) saveCache() error {
	if err := os.MkdirAll(filepath.Dir(r.cachePath()), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.cachePath(), data, 0644)
}
