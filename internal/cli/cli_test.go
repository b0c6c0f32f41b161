package cli

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/sling/internal/adapters/abi"
	"github.com/trebuchet-org/sling/internal/adapters/blockchain"
	"github.com/trebuchet-org/sling/internal/adapters/blockchain/blockchaintest"
	adaptersconfig "github.com/trebuchet-org/sling/internal/adapters/config"
	"github.com/trebuchet-org/sling/internal/adapters/contracts"
	"github.com/trebuchet-org/sling/internal/adapters/interactive"
	"github.com/trebuchet-org/sling/internal/adapters/senders"
	"github.com/trebuchet-org/sling/internal/app"
	"github.com/trebuchet-org/sling/internal/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

func init() {
	color.NoColor = true
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func foundryArtifact(source, name, abiJSON, bytecode string) string {
	return `{
  "abi": ` + abiJSON + `,
  "bytecode": {"object": "` + bytecode + `", "linkReferences": {}},
  "metadata": {"settings": {"compilationTarget": {"` + source + `": "` + name + `"}}}
}`
}

// newProject lays out a Foundry project with a working, a reverting and a
// constructor-taking contract
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "foundry.toml"), "[profile.default]\nsrc = \"src\"\nout = \"out\"\n")
	writeFile(t, filepath.Join(root, "out/Counter.sol/Counter.json"),
		foundryArtifact("src/Counter.sol", "Counter", "[]", blockchaintest.CounterBytecode))
	writeFile(t, filepath.Join(root, "out/Broken.sol/Broken.json"),
		foundryArtifact("src/Broken.sol", "Broken", "[]", blockchaintest.RevertingBytecode))
	writeFile(t, filepath.Join(root, "out/Store.sol/Store.json"),
		foundryArtifact("src/Store.sol", "Store",
			`[{"type":"constructor","stateMutability":"nonpayable","inputs":[{"name":"initial","type":"uint256"}]}]`,
			blockchaintest.CounterBytecode))
	return root
}

// simulatedFactory builds the app like the generated injector does, with the
// chain client bound to an in-process backend
func simulatedFactory(root string, backend blockchain.Backend) AppFactory {
	return func(v *viper.Viper, sink usecase.ProgressSink) (*app.App, error) {
		v.Set("project_root", root)
		cfg, err := config.Provider(v)
		if err != nil {
			return nil, err
		}

		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		indexer := contracts.NewIndexer(cfg, log)
		networks := adaptersconfig.NewNetworkResolverAdapter(config.ProvideNetworkResolver(cfg))
		deploy := usecase.NewDeployContract(
			cfg,
			indexer,
			interactive.NewSelectorAdapter(cfg),
			abi.NewParser(),
			networks,
			senders.NewService(cfg, log),
			blockchain.NewClientWithBackend(backend, log),
			sink,
			log,
		)
		return app.NewApp(cfg, deploy, usecase.NewListContracts(indexer), usecase.NewListNetworks(networks))
	}
}

func runCLI(t *testing.T, factory AppFactory, args ...string) (string, string, int) {
	t.Helper()
	cmd := NewRootCmdWithFactory(factory)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	code := Execute(cmd)
	return stdout.String(), stderr.String(), code
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SLING_PRIVATE_KEY", "PRIVATE_KEY", "SLING_NETWORK", "SLING_RPC_URL", "SLING_CHAIN_ID",
		"SLING_JSON", "SLING_DRY_RUN", "SLING_FROM", "SLING_NON_INTERACTIVE", "SLING_TIMEOUT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestDeployCommand(t *testing.T) {
	clearEnv(t)

	setup := func(t *testing.T) (AppFactory, blockchaintest.Account) {
		backend, account := blockchaintest.NewBackend(t)
		return simulatedFactory(newProject(t), backend), account
	}
	keyFlag := func(account blockchaintest.Account) []string {
		return []string{"--private-key", hex.EncodeToString(crypto.FromECDSA(account.Key))}
	}

	t.Run("prints the deployed address and exits 0", func(t *testing.T) {
		factory, account := setup(t)
		stdout, stderr, code := runCLI(t, factory, append([]string{"deploy", "Counter"}, keyFlag(account)...)...)

		require.Equal(t, 0, code, "stderr: %s", stderr)
		want := crypto.CreateAddress(account.Address, 0).Hex()
		assert.Contains(t, stdout, "Deploying Counter contract with account: "+account.Address.Hex())
		assert.Contains(t, stdout, "Account balance: 1000000000000000000000")
		assert.Contains(t, stdout, "Counter deployed to: "+want)
		assert.Contains(t, stdout, "Network: localhost (chain 1337)")
		assert.NotContains(t, stderr, "Error")
	})

	t.Run("reverting constructor exits 1", func(t *testing.T) {
		factory, account := setup(t)
		stdout, stderr, code := runCLI(t, factory, append([]string{"deploy", "Broken"}, keyFlag(account)...)...)

		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Error: deployment of Broken failed")
		assert.NotContains(t, stdout, "deployed to")
	})

	t.Run("unknown contract exits 1 with suggestions", func(t *testing.T) {
		factory, account := setup(t)
		_, stderr, code := runCLI(t, factory, append([]string{"deploy", "Countr"}, keyFlag(account)...)...)

		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, `no compiled artifact for contract "Countr"`)
		assert.Contains(t, stderr, "did you mean Counter?")
	})

	t.Run("constructor arguments", func(t *testing.T) {
		factory, account := setup(t)

		_, stderr, code := runCLI(t, factory, append([]string{"deploy", "Store", "42"}, keyFlag(account)...)...)
		assert.Equal(t, 0, code, "stderr: %s", stderr)

		_, stderr, code = runCLI(t, factory, append([]string{"deploy", "Store", "--args", "7"}, keyFlag(account)...)...)
		assert.Equal(t, 0, code, "stderr: %s", stderr)

		_, stderr, code = runCLI(t, factory, append([]string{"deploy", "Store"}, keyFlag(account)...)...)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "constructor expects 1 argument(s) (uint256), got 0")

		_, stderr, code = runCLI(t, factory, append([]string{"deploy", "Store", "1", "--args", "2"}, keyFlag(account)...)...)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "both positionally and with --args")
	})

	t.Run("json output", func(t *testing.T) {
		factory, account := setup(t)
		stdout, stderr, code := runCLI(t, factory, append([]string{"deploy", "Counter", "--json"}, keyFlag(account)...)...)
		require.Equal(t, 0, code, "stderr: %s", stderr)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &decoded), "stdout must hold only JSON: %s", stdout)
		assert.Equal(t, "Counter", decoded["contract"])
		assert.Equal(t, float64(blockchaintest.ChainID), decoded["chainId"])
		assert.NotEmpty(t, decoded["txHash"])
	})

	t.Run("dry run sends nothing", func(t *testing.T) {
		factory, account := setup(t)
		stdout, stderr, code := runCLI(t, factory, append([]string{"deploy", "Counter", "--dry-run"}, keyFlag(account)...)...)
		require.Equal(t, 0, code, "stderr: %s", stderr)
		assert.Contains(t, stdout, "Counter would be deployed to: "+crypto.CreateAddress(account.Address, 0).Hex())

		// The nonce is unchanged, so a real deployment lands on the predicted address
		stdout, _, code = runCLI(t, factory, append([]string{"deploy", "Counter"}, keyFlag(account)...)...)
		require.Equal(t, 0, code)
		assert.Contains(t, stdout, "Counter deployed to: "+crypto.CreateAddress(account.Address, 0).Hex())
	})

	t.Run("missing contract name in non-interactive mode", func(t *testing.T) {
		factory, account := setup(t)
		_, stderr, code := runCLI(t, factory, append([]string{"deploy", "--non-interactive"}, keyFlag(account)...)...)

		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "no contract specified")
	})

	t.Run("mismatched --from", func(t *testing.T) {
		factory, account := setup(t)
		args := append([]string{"deploy", "Counter", "--from", "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"}, keyFlag(account)...)
		_, stderr, code := runCLI(t, factory, args...)

		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "signer address mismatch")
	})

	t.Run("expected chain id", func(t *testing.T) {
		factory, account := setup(t)

		stdout, stderr, code := runCLI(t, factory, append([]string{"deploy", "Counter", "--chain-id", "1"}, keyFlag(account)...)...)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Failed while connecting to network")
		assert.Contains(t, stderr, "chain ID mismatch: expected 1, node reports 1337")
		assert.NotContains(t, stdout, "deployed to")

		stdout, stderr, code = runCLI(t, factory, append([]string{"deploy", "Counter", "--chain-id", "1337"}, keyFlag(account)...)...)
		require.Equal(t, 0, code, "stderr: %s", stderr)
		assert.Contains(t, stdout, "Counter deployed to: "+crypto.CreateAddress(account.Address, 0).Hex())
	})
}

func TestContractsCommand(t *testing.T) {
	clearEnv(t)
	backend, _ := blockchaintest.NewBackend(t)
	factory := simulatedFactory(newProject(t), backend)

	stdout, stderr, code := runCLI(t, factory, "contracts")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "src/Counter.sol")
	assert.Contains(t, stdout, "src/Broken.sol")
	assert.Contains(t, stdout, "3 contract(s)")

	stdout, _, code = runCLI(t, factory, "contracts", "stor", "--json")
	require.Equal(t, 0, code)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Store", decoded[0]["name"])
}

func TestVersionCommand(t *testing.T) {
	factory := func(v *viper.Viper, sink usecase.ProgressSink) (*app.App, error) {
		return nil, errors.New("version must not build the app")
	}

	stdout, _, code := runCLI(t, factory, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "sling version "+config.Version)
}

func TestFactoryFailure(t *testing.T) {
	factory := func(v *viper.Viper, sink usecase.ProgressSink) (*app.App, error) {
		return nil, errors.New("boom")
	}

	_, stderr, code := runCLI(t, factory, "contracts")
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: failed to initialize app: boom\n", stderr)
}
