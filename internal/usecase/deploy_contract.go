package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/domain/models"
)

// DeployContractParams contains parameters for a single deployment
type DeployContractParams struct {
	ContractRef string   // "Name" or "path/to/File.sol:Name"; empty asks interactively
	Args        []string // constructor arguments, one per input
	DryRun      bool
}

// DeployContract deploys one compiled contract and waits for it to be mined
type DeployContract struct {
	config    *config.RuntimeConfig
	contracts ContractRepository
	selector  ContractSelector
	args      ArgumentParser
	networks  NetworkResolver
	signers   SignerProvider
	chain     ChainClient
	sink      ProgressSink
	log       *slog.Logger
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	contracts ContractRepository,
	selector ContractSelector,
	args ArgumentParser,
	networks NetworkResolver,
	signers SignerProvider,
	chain ChainClient,
	sink ProgressSink,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		config:    cfg,
		contracts: contracts,
		selector:  selector,
		args:      args,
		networks:  networks,
		signers:   signers,
		chain:     chain,
		sink:      sink,
		log:       log.With("usecase", "deploy"),
	}
}

// Run executes the deployment. Every failure is a *domain.DeploymentError.
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (*models.Deployment, error) {
	defer uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageResolving,
		Message: fmt.Sprintf("Resolving contract: %s", params.ContractRef),
	})

	contract, err := uc.resolveContract(ctx, params.ContractRef)
	if err != nil {
		return nil, uc.fail(params.ContractRef, domain.StageResolving, err)
	}

	name := contract.Name
	fail := func(stage domain.DeploymentStage, err error) error {
		return uc.fail(name, stage, err)
	}

	artifact, err := contract.LoadArtifact()
	if err != nil {
		return nil, fail(domain.StageResolving, err)
	}
	if !artifact.HasBytecode() {
		return nil, fail(domain.StageResolving, fmt.Errorf("%s has no creation bytecode (abstract contract or interface)", contract.FullyQualifiedName()))
	}
	if !artifact.IsLinked() {
		return nil, fail(domain.StageResolving, fmt.Errorf("%w in %s: link libraries and rebuild", domain.ErrUnlinkedBytecode, contract.FullyQualifiedName()))
	}

	contractABI, err := artifact.ParsedABI()
	if err != nil {
		return nil, fail(domain.StageEncoding, err)
	}
	args, err := uc.args.ParseConstructorArgs(contractABI, params.Args)
	if err != nil {
		return nil, fail(domain.StageEncoding, err)
	}
	packed, err := contractABI.Pack("", args...)
	if err != nil {
		return nil, fail(domain.StageEncoding, fmt.Errorf("failed to encode constructor arguments: %w", err))
	}
	bytecode := artifact.CreationCode()

	network := uc.config.Network
	if network == nil {
		return nil, fail(domain.StageConnecting, domain.ErrNoNetwork)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageConnecting,
		Message: fmt.Sprintf("Connecting to %s", network.Name),
	})
	defer uc.chain.Close()
	if err := uc.chain.Connect(ctx, network); err != nil {
		return nil, fail(domain.StageConnecting, err)
	}
	uc.log.Debug("connected", "network", network.Name, "chainId", network.ChainID, "rpc", network.RPCURL)

	signer, err := uc.signers.ResolveSigner(ctx, network)
	if err != nil {
		return nil, fail(domain.StageSigner, err)
	}
	balance, err := uc.chain.Balance(ctx, signer.Address)
	if err != nil {
		return nil, fail(domain.StageSigner, err)
	}

	uc.sink.Info(fmt.Sprintf("Deploying %s contract with account: %s", name, signer.Address.Hex()))
	uc.sink.Info(fmt.Sprintf("Account balance: %s", balance.String()))

	deployment := &models.Deployment{
		ContractName: name,
		Artifact:     contract.FullyQualifiedName(),
		Network:      network.Name,
		ChainID:      network.ChainID,
		Deployer:     signer.Address,
		Balance:      balance,
		ExplorerURL:  uc.networks.ExplorerURL(network),
	}

	if params.DryRun {
		nonce, err := uc.chain.PendingNonce(ctx, signer.Address)
		if err != nil {
			return nil, fail(domain.StageSubmitting, err)
		}
		gas, err := uc.chain.EstimateDeployGas(ctx, signer.Address, append(bytecode, packed...))
		if err != nil {
			return nil, fail(domain.StageSubmitting, err)
		}

		deployment.DryRun = true
		deployment.Address = crypto.CreateAddress(signer.Address, nonce)
		deployment.EstimatedGas = gas
		return deployment, nil
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageDeploying,
		Message: "Sending creation transaction",
		Spinner: true,
	})
	pending, err := uc.chain.Deploy(ctx, DeployRequest{
		Signer:   signer,
		ABI:      contractABI,
		Bytecode: bytecode,
		Args:     args,
	})
	if err != nil {
		return nil, fail(domain.StageSubmitting, err)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:    StageConfirming,
		Message:  fmt.Sprintf("Waiting for %s to be mined", pending.Transaction.Hash().Hex()),
		Spinner:  true,
		Metadata: pending,
	})
	confirmation, err := uc.chain.WaitForDeployment(ctx, pending)
	if err != nil {
		return nil, fail(domain.StageConfirming, err)
	}

	deployment.Address = confirmation.Address
	deployment.TxHash = confirmation.TxHash
	deployment.BlockNumber = confirmation.BlockNumber
	deployment.GasUsed = confirmation.GasUsed
	return deployment, nil
}

// resolveContract looks up ref, falling back to the picker when ref is empty
// or names several contracts and the session is interactive
// fail reports the failing step on the progress sink and wraps err for the caller
func (uc *DeployContract) fail(contract string, stage domain.DeploymentStage, err error) error {
	uc.sink.Error(fmt.Sprintf("Failed while %s", stage))
	return &domain.DeploymentError{Contract: contract, Stage: stage, Err: err}
}

func (uc *DeployContract) resolveContract(ctx context.Context, ref string) (*models.Contract, error) {
	if ref == "" {
		if uc.config.NonInteractive {
			return nil, fmt.Errorf("no contract specified")
		}
		all, err := uc.contracts.SearchContracts(ctx, "")
		if err != nil {
			return nil, err
		}
		return uc.selector.SelectContract(ctx, all, "Select a contract to deploy")
	}

	contract, err := uc.contracts.GetContract(ctx, ref)
	if err == nil {
		return contract, nil
	}

	var ambiguous domain.AmbiguousContractError
	if !errors.As(err, &ambiguous) || uc.config.NonInteractive {
		return nil, err
	}

	candidates, searchErr := uc.contracts.SearchContracts(ctx, ref)
	if searchErr != nil {
		return nil, searchErr
	}
	matches := make([]*models.Contract, 0, len(ambiguous.Matches))
	for _, c := range candidates {
		if c.Name == ref {
			matches = append(matches, c)
		}
	}
	return uc.selector.SelectContract(ctx, matches, fmt.Sprintf("Multiple contracts named %s, select one", ref))
}
