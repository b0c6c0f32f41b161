package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/sling/internal/adapters/abi"
	"github.com/trebuchet-org/sling/internal/adapters/blockchain"
	internalconfig "github.com/trebuchet-org/sling/internal/adapters/config"
	"github.com/trebuchet-org/sling/internal/adapters/contracts"
	"github.com/trebuchet-org/sling/internal/adapters/interactive"
	"github.com/trebuchet-org/sling/internal/adapters/senders"
	"github.com/trebuchet-org/sling/internal/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// ArtifactSet provides artifact lookup and constructor argument handling
var ArtifactSet = wire.NewSet(
	contracts.NewIndexer,
	wire.Bind(new(usecase.ContractRepository), new(*contracts.Indexer)),

	abi.NewParser,
	wire.Bind(new(usecase.ArgumentParser), new(*abi.Parser)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ContractSelector), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// BlockchainSet provides chain access and signing
var BlockchainSet = wire.NewSet(
	blockchain.NewClient,
	wire.Bind(new(usecase.ChainClient), new(*blockchain.Client)),

	senders.NewService,
	wire.Bind(new(usecase.SignerProvider), new(*senders.Service)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ArtifactSet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
)
