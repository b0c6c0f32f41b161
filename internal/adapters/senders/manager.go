package senders

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/domain/models"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// DevPrivateKey is the first account of anvil and the hardhat node
const DevPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// Service resolves the deployer account from the runtime configuration
type Service struct {
	privateKey  string
	fromAddress string
	log         *slog.Logger
}

// NewService creates a new sender service
func NewService(cfg *config.RuntimeConfig, log *slog.Logger) *Service {
	return &Service{
		privateKey:  cfg.PrivateKey,
		fromAddress: cfg.FromAddress,
		log:         log.With("component", "senders"),
	}
}

// ResolveSigner builds a keyed transactor for the network's chain ID.
// Without a configured key, local development chains fall back to the first dev account.
func (s *Service) ResolveSigner(ctx context.Context, network *config.Network) (*models.Signer, error) {
	if network == nil || network.ChainID == 0 {
		return nil, fmt.Errorf("chain ID of the target network is unknown")
	}

	keyHex := s.privateKey
	dev := false
	if strings.TrimSpace(keyHex) == "" {
		if !network.IsLocal() {
			return nil, fmt.Errorf("%w for chain %d: pass --private-key or set SLING_PRIVATE_KEY or PRIVATE_KEY", domain.ErrNoSigner, network.ChainID)
		}
		keyHex = DevPrivateKey
		dev = true
	}

	key, address, err := parsePrivateKey(keyHex)
	if err != nil {
		return nil, err
	}

	if s.fromAddress != "" {
		if !isValidAddress(s.fromAddress) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, s.fromAddress)
		}
		if !strings.EqualFold(common.HexToAddress(s.fromAddress).Hex(), address.Hex()) {
			return nil, fmt.Errorf("%w: --from %s does not match private key address %s",
				domain.ErrSignerMismatch, common.HexToAddress(s.fromAddress).Hex(), address.Hex())
		}
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(network.ChainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	if dev {
		s.log.Debug("using local development account", "address", address.Hex())
	}
	return &models.Signer{Address: address, DevAccount: dev, Opts: opts}, nil
}

func parsePrivateKey(v string) (*ecdsa.PrivateKey, common.Address, error) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "0x")
	if !isValidPrivateKey(v) {
		return nil, common.Address{}, fmt.Errorf("invalid private key: expected 32 bytes of hex")
	}
	key, err := crypto.HexToECDSA(v)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("invalid private key: %w", err)
	}
	return key, crypto.PubkeyToAddress(key.PublicKey), nil
}

func isValidPrivateKey(key string) bool {
	key = strings.TrimPrefix(key, "0x")
	return len(key) == 64 && isHex(key)
}

func isValidAddress(addr string) bool {
	return common.IsHexAddress(addr)
}

func isHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

var _ usecase.SignerProvider = (*Service)(nil)
