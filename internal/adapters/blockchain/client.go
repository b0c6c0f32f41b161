package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/domain/models"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// Backend is the subset of an Ethereum JSON-RPC client the deployer needs.
// *ethclient.Client and the simulated backend's client both satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ethereum.ChainIDReader
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// DialFunc opens a Backend for an RPC URL
type DialFunc func(ctx context.Context, rpcURL string) (Backend, error)

func dialEthclient(ctx context.Context, rpcURL string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Client implements usecase.ChainClient on top of go-ethereum
type Client struct {
	dial    DialFunc
	backend Backend
	network *config.Network
	log     *slog.Logger
}

// NewClient creates a client that dials the network's RPC URL on Connect
func NewClient(log *slog.Logger) *Client {
	return &Client{
		dial: dialEthclient,
		log:  log.With("component", "blockchain"),
	}
}

// NewClientWithBackend creates a client bound to an already open backend
func NewClientWithBackend(backend Backend, log *slog.Logger) *Client {
	return &Client{
		backend: backend,
		log:     log.With("component", "blockchain"),
	}
}

// Connect establishes the connection and verifies the chain ID.
// A network without a configured chain ID takes the one the node reports.
func (c *Client) Connect(ctx context.Context, network *config.Network) error {
	if network == nil {
		return domain.ErrNoNetwork
	}

	if c.backend == nil {
		backend, err := c.dial(ctx, network.RPCURL)
		if err != nil {
			return fmt.Errorf("failed to connect to RPC %s: %w", network.RPCURL, err)
		}
		c.backend = backend
	}

	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID: %w", err)
	}

	if network.ChainID == 0 {
		network.ChainID = chainID.Uint64()
	} else if chainID.Uint64() != network.ChainID {
		return fmt.Errorf("%w: expected %d, node reports %d", domain.ErrChainIDMismatch, network.ChainID, chainID.Uint64())
	}

	c.network = network
	c.log.Debug("connected", "network", network.Name, "chainId", network.ChainID)
	return nil
}

func (c *Client) connected() error {
	if c.backend == nil {
		return fmt.Errorf("not connected to blockchain")
	}
	return nil
}

// Balance returns the latest balance of account in wei
func (c *Client) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	if err := c.connected(); err != nil {
		return nil, err
	}
	balance, err := c.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance of %s: %w", account.Hex(), err)
	}
	return balance, nil
}

// PendingNonce returns the nonce the next transaction from account will use
func (c *Client) PendingNonce(ctx context.Context, account common.Address) (uint64, error) {
	if err := c.connected(); err != nil {
		return 0, err
	}
	nonce, err := c.backend.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("failed to get nonce of %s: %w", account.Hex(), err)
	}
	return nonce, nil
}

// EstimateDeployGas estimates the gas of a creation transaction carrying data
func (c *Client) EstimateDeployGas(ctx context.Context, from common.Address, data []byte) (uint64, error) {
	if err := c.connected(); err != nil {
		return 0, err
	}
	gas, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, Data: data})
	if err != nil {
		return 0, fmt.Errorf("failed to estimate gas: %w", err)
	}
	return gas, nil
}

// Deploy signs and submits the creation transaction
func (c *Client) Deploy(ctx context.Context, req usecase.DeployRequest) (*models.PendingDeployment, error) {
	if err := c.connected(); err != nil {
		return nil, err
	}
	if req.Signer == nil || req.Signer.Opts == nil {
		return nil, domain.ErrNoSigner
	}

	contractABI := abi.ABI{}
	if req.ABI != nil {
		contractABI = *req.ABI
	}

	opts := *req.Signer.Opts
	opts.Context = ctx

	address, tx, _, err := bind.DeployContract(&opts, contractABI, req.Bytecode, c.backend, req.Args...)
	if err != nil {
		return nil, err
	}

	c.log.Debug("creation transaction sent", "tx", tx.Hash().Hex(), "address", address.Hex(), "nonce", tx.Nonce())
	return &models.PendingDeployment{Transaction: tx, Address: address}, nil
}

// WaitForDeployment blocks until the creation transaction is mined or ctx ends,
// then checks the receipt status and the code at the new address.
func (c *Client) WaitForDeployment(ctx context.Context, pending *models.PendingDeployment) (*models.Confirmation, error) {
	if err := c.connected(); err != nil {
		return nil, err
	}

	tx := pending.Transaction
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", tx.Hash().Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w in transaction %s", domain.ErrConstructorReverted, tx.Hash().Hex())
	}

	address := receipt.ContractAddress
	if address == (common.Address{}) {
		address = pending.Address
	}

	code, err := c.backend.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check code at %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoCodeAfterDeploy, address.Hex())
	}

	confirmation := &models.Confirmation{
		Address: address,
		TxHash:  tx.Hash(),
		GasUsed: receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		confirmation.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return confirmation, nil
}

// Close releases the RPC connection
func (c *Client) Close() {
	if closer, ok := c.backend.(interface{ Close() }); ok {
		closer.Close()
	}
}

var _ usecase.ChainClient = (*Client)(nil)
