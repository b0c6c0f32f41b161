package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
)

// LocalhostRPCURL is the endpoint of a node started with anvil or npx hardhat node
const LocalhostRPCURL = "http://127.0.0.1:8545"

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar checks if a raw TOML value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Examples: sepolia -> SEPOLIA_RPC_URL, celo-sepolia -> CELO_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// rpcURLFor finds the endpoint of a named network. Lookup order:
// foundry.toml [rpc_endpoints], then <NAME>_RPC_URL, then the built-in localhost.
func rpcURLFor(foundryConfig *config.FoundryConfig, networkName string) (string, error) {
	if foundryConfig != nil {
		if raw, ok := foundryConfig.RawRpcEndpoints[networkName]; ok {
			url := strings.TrimSpace(foundryConfig.RpcEndpoints[networkName])
			if url == "" {
				if envVar, isVar := DetectEnvVar(raw); isVar {
					return "", fmt.Errorf("%w: rpc endpoint %q references %s, which is not set", domain.ErrNoNetwork, networkName, envVar)
				}
				return "", fmt.Errorf("%w: rpc endpoint %q is empty", domain.ErrNoNetwork, networkName)
			}
			return url, nil
		}
	}

	if url := strings.TrimSpace(os.Getenv(GenerateEnvVarName(networkName))); url != "" {
		return url, nil
	}

	if networkName == "localhost" {
		return LocalhostRPCURL, nil
	}

	return "", fmt.Errorf("%w: network '%s' not found in foundry.toml [rpc_endpoints] and %s is not set",
		domain.ErrNoNetwork, networkName, GenerateEnvVarName(networkName))
}
