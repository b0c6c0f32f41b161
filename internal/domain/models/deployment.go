package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Deployment is the outcome of a single deploy run. It is never persisted.
type Deployment struct {
	ContractName string         `json:"contract"`
	Artifact     string         `json:"artifact"`
	Network      string         `json:"network"`
	ChainID      uint64         `json:"chainId"`
	Deployer     common.Address `json:"deployer"`
	Balance      *big.Int       `json:"balance"`
	Address      common.Address `json:"address"`

	// Set once the creation transaction has been mined
	TxHash      common.Hash `json:"txHash,omitempty"`
	BlockNumber uint64      `json:"blockNumber,omitempty"`
	GasUsed     uint64      `json:"gasUsed,omitempty"`

	// Set for dry runs, where Address is the predicted CREATE address
	DryRun       bool   `json:"dryRun"`
	EstimatedGas uint64 `json:"estimatedGas,omitempty"`

	ExplorerURL string `json:"explorerUrl,omitempty"`
}

// PendingDeployment is a submitted, not yet confirmed creation transaction
type PendingDeployment struct {
	Transaction *types.Transaction
	Address     common.Address
}

// Confirmation is what the chain reports once the creation transaction is mined
type Confirmation struct {
	Address     common.Address
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
}
