package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrContractNotFound is returned when a contract can't be found
	ErrContractNotFound = errors.New("contract not found")

	// ErrNoArtifacts is returned when neither out/ nor artifacts/ exists
	ErrNoArtifacts = errors.New("no compiled artifacts found (run forge build or npx hardhat compile first)")

	// ErrUnlinkedBytecode is returned when creation bytecode still carries library placeholders
	ErrUnlinkedBytecode = errors.New("bytecode contains unlinked library references")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNoSigner is returned when no private key is configured for a non-local network
	ErrNoSigner = errors.New("no deployer key configured")

	// ErrSignerMismatch is returned when --from does not match the configured key
	ErrSignerMismatch = errors.New("signer address mismatch")

	// ErrNoNetwork is returned when neither --network nor --rpc-url resolves to an endpoint
	ErrNoNetwork = errors.New("no network configured")

	// ErrChainIDMismatch is returned when the node reports a different chain ID than configured
	ErrChainIDMismatch = errors.New("chain ID mismatch")

	// ErrConstructorReverted is returned when the creation transaction is mined with a failed status
	ErrConstructorReverted = errors.New("constructor reverted")

	// ErrNoCodeAfterDeploy is returned when no code is found at the deployed address
	ErrNoCodeAfterDeploy = errors.New("no contract code at deployed address")
)

// DeploymentStage names the step of the deploy procedure that failed
type DeploymentStage string

const (
	StageResolving  DeploymentStage = "resolving artifact"
	StageEncoding   DeploymentStage = "encoding constructor arguments"
	StageConnecting DeploymentStage = "connecting to network"
	StageSigner     DeploymentStage = "acquiring signer"
	StageSubmitting DeploymentStage = "submitting creation transaction"
	StageConfirming DeploymentStage = "awaiting confirmation"
)

// DeploymentError is the single failure class surfaced by a deploy run.
// The wrapped error keeps the underlying cause reachable through errors.Is/As.
type DeploymentError struct {
	Contract string
	Stage    DeploymentStage
	Err      error
}

func (e *DeploymentError) Error() string {
	name := e.Contract
	if name == "" {
		name = "contract"
	}
	return fmt.Sprintf("deployment of %s failed while %s: %v", name, e.Stage, e.Err)
}

func (e *DeploymentError) Unwrap() error {
	return e.Err
}

// ContractNotFoundError reports a miss in the artifact index with close matches
type ContractNotFoundError struct {
	Ref         string
	Suggestions []string
}

func (e ContractNotFoundError) Error() string {
	msg := fmt.Sprintf("no compiled artifact for contract %q", e.Ref)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e ContractNotFoundError) Is(target error) bool {
	return target == ErrContractNotFound
}

// AmbiguousContractError reports a bare name shared by several sources
type AmbiguousContractError struct {
	Ref     string
	Matches []ContractCandidate
}

// ContractCandidate identifies one of several contracts sharing a name
type ContractCandidate struct {
	Name string
	Path string
}

func (e AmbiguousContractError) Error() string {
	// Sort contracts by artifact path for consistent output
	sorted := make([]ContractCandidate, len(e.Matches))
	copy(sorted, e.Matches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path+":"+sorted[i].Name < sorted[j].Path+":"+sorted[j].Name
	})

	suggestions := make([]string, 0, len(sorted))
	for _, c := range sorted {
		suggestions = append(suggestions, fmt.Sprintf("  - %s:%s", c.Path, c.Name))
	}

	return fmt.Sprintf("multiple contracts found matching %q - use full path:contract format to disambiguate:\n%s",
		e.Ref, strings.Join(suggestions, "\n"))
}
