package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

// DefaultNetwork is used when neither --network nor --rpc-url is given
const DefaultNetwork = "localhost"

// projectMarkers identify the root of a Foundry or Hardhat project
var projectMarkers = []string{
	"foundry.toml",
	"hardhat.config.js",
	"hardhat.config.ts",
	"hardhat.config.cjs",
	"hardhat.config.mjs",
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	// .env must be loaded before foundry.toml expansion and key lookup
	loadDotEnv(projectRoot)

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		PrivateKey:     strings.TrimSpace(v.GetString("private-key")),
		FromAddress:    strings.TrimSpace(v.GetString("from")),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non-interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		DryRun:         v.GetBool("dry-run"),
	}

	foundryConfig, err := LoadFoundryConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}
	cfg.FoundryConfig = foundryConfig

	// Zero lets the node decide; anything else must match what the node reports
	expectedChainID := v.GetUint64("chain-id")

	networkName := v.GetString("network")
	if rpcURL := strings.TrimSpace(v.GetString("rpc-url")); rpcURL != "" {
		if networkName == "" {
			networkName = "custom"
		}
		cfg.Network = &config.Network{Name: networkName, RPCURL: rpcURL, ChainID: expectedChainID}
		return cfg, nil
	}

	if networkName == "" {
		networkName = DefaultNetwork
	}
	network, err := NewNetworkResolver(projectRoot, foundryConfig).Lookup(networkName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
	}
	network.ChainID = expectedChainID
	cfg.Network = network

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to the nearest Foundry or
// Hardhat project. Outside of any project the current directory is used.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findProjectRootFrom(cwd), nil
}

func findProjectRootFrom(start string) string {
	dir := start
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".sling"))

	// Set up environment variables
	v.SetEnvPrefix("SLING")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non-interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		err := v.BindPFlag(f.Name, f)
		if err != nil {
			panic(err)
		}
	})

	// PRIVATE_KEY is the Hardhat .env convention
	_ = v.BindEnv("private-key", "SLING_PRIVATE_KEY", "PRIVATE_KEY")

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.ProjectRoot, cfg.FoundryConfig)
}
