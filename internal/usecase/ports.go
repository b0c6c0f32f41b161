package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/domain/models"
)

// ContractRepository provides access to compiled contracts
type ContractRepository interface {
	GetContract(ctx context.Context, ref string) (*models.Contract, error)
	SearchContracts(ctx context.Context, query string) ([]*models.Contract, error)
}

// ContractSelector handles interactive selection of contracts
type ContractSelector interface {
	SelectContract(ctx context.Context, contracts []*models.Contract, prompt string) (*models.Contract, error)
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	// ResolveNetwork contacts the node. On failure the network may still be
	// returned with a previously seen chain ID.
	ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error)
	ExplorerURL(network *config.Network) string
}

// SignerProvider acquires the deployer account for a connected chain
type SignerProvider interface {
	ResolveSigner(ctx context.Context, network *config.Network) (*models.Signer, error)
}

// DeployRequest describes a single contract creation
type DeployRequest struct {
	Signer   *models.Signer
	ABI      *abi.ABI
	Bytecode []byte
	Args     []any
}

// ChainClient talks to the node the deployment targets
type ChainClient interface {
	// Connect dials the network and fills in its chain ID when unknown
	Connect(ctx context.Context, network *config.Network) error
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
	PendingNonce(ctx context.Context, account common.Address) (uint64, error)
	EstimateDeployGas(ctx context.Context, from common.Address, data []byte) (uint64, error)
	Deploy(ctx context.Context, req DeployRequest) (*models.PendingDeployment, error)
	WaitForDeployment(ctx context.Context, pending *models.PendingDeployment) (*models.Confirmation, error)
	Close()
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    ExecutionStage
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	// Error reports the step a run failed at; the error itself is returned
	Error(message string)
}

// ExecutionStage represents a stage in the execution process
type ExecutionStage string

const (
	StageResolving  ExecutionStage = "Resolving"
	StageConnecting ExecutionStage = "Connecting"
	StageDeploying  ExecutionStage = "Deploying"
	StageConfirming ExecutionStage = "Confirming"
	StageCompleted  ExecutionStage = "Completed"
)

// ArgumentParser converts command-line strings into constructor arguments
type ArgumentParser interface {
	ParseConstructorArgs(contractABI *abi.ABI, values []string) ([]any, error)
}
