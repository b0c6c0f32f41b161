package models

import (
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Signer is the account that pays for and signs the creation transaction
type Signer struct {
	Address common.Address
	// DevAccount is set when the well-known local development key was used
	DevAccount bool
	Opts       *bind.TransactOpts
}
