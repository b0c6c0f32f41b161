// Package blockchaintest provides an in-process chain for tests.
package blockchaintest

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind/backends"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

// ChainID is the chain ID of the simulated backend
const ChainID = 1337

// CounterBytecode deploys a contract whose runtime returns 42 for any call
const CounterBytecode = "0x600a600c600039600a6000f3602a60505260206050f3"

// RevertingBytecode is creation code that always reverts
const RevertingBytecode = "0x60006000fd"

// Backend is a simulated chain that mines a block for every sent transaction
type Backend struct {
	*backends.SimulatedBackend
}

// SendTransaction submits tx and commits it into a new block
func (b *Backend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := b.SimulatedBackend.SendTransaction(ctx, tx); err != nil {
		return err
	}
	b.Commit()
	return nil
}

// Account is a funded key on the simulated chain
type Account struct {
	Key     *ecdsa.PrivateKey
	Address common.Address
}

// NewBackend starts a simulated chain with one account holding 1000 ether
func NewBackend(t *testing.T) (*Backend, Account) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	account := Account{Key: key, Address: crypto.PubkeyToAddress(key.PublicKey)}

	balance, _ := new(big.Int).SetString("1000000000000000000000", 10)
	alloc := core.GenesisAlloc{
		account.Address: {Balance: balance},
	}
	sim := backends.NewSimulatedBackend(alloc, 30_000_000)
	t.Cleanup(func() { _ = sim.Close() })

	return &Backend{SimulatedBackend: sim}, account
}
