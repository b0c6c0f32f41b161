package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

// loadDotEnv loads .env.local then .env from the project root.
// Variables already present in the environment are never overridden.
func loadDotEnv(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env.local"),
		filepath.Join(projectRoot, ".env"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				slog.Warn("failed to load env file", "path", envFile, "error", err)
			}
		}
	}
}

// LoadFoundryConfig parses foundry.toml, expanding ${VAR} references in
// rpc_endpoints and etherscan entries. A project without foundry.toml
// (e.g. a Hardhat project) yields an empty configuration.
func LoadFoundryConfig(projectRoot string) (*config.FoundryConfig, error) {
	cfg := &config.FoundryConfig{}

	foundryPath := filepath.Join(projectRoot, "foundry.toml")
	if _, err := os.Stat(foundryPath); err == nil {
		if _, err := toml.DecodeFile(foundryPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
		}
	}

	if cfg.Profile == nil {
		cfg.Profile = make(map[string]config.ProfileConfig)
	}
	if cfg.Etherscan == nil {
		cfg.Etherscan = make(map[string]config.EtherscanConfig)
	}

	cfg.RawRpcEndpoints = make(map[string]string, len(cfg.RpcEndpoints))
	expanded := make(map[string]string, len(cfg.RpcEndpoints))
	for name, url := range cfg.RpcEndpoints {
		cfg.RawRpcEndpoints[name] = url
		expanded[name] = os.ExpandEnv(url)
	}
	cfg.RpcEndpoints = expanded

	for network, ethConfig := range cfg.Etherscan {
		ethConfig.Key = os.ExpandEnv(ethConfig.Key)
		ethConfig.URL = os.ExpandEnv(ethConfig.URL)
		cfg.Etherscan[network] = ethConfig
	}

	return cfg, nil
}
