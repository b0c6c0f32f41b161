package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string

	// Context settings
	Network *Network // resolved from --network or --rpc-url, nil if neither is set

	// Signer settings
	PrivateKey  string // raw hex, may be empty
	FromAddress string // optional cross-check against the key's address

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration
	DryRun         bool

	// Resolved configurations
	FoundryConfig *FoundryConfig
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
}

// IsLocal reports whether the network is a local development chain
// (anvil / hardhat node defaults).
func (n *Network) IsLocal() bool {
	return n != nil && (n.ChainID == 31337 || n.ChainID == 1337)
}
