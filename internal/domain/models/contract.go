package models

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ArtifactFormat identifies the toolchain that produced an artifact
type ArtifactFormat string

const (
	ArtifactFormatFoundry ArtifactFormat = "foundry"
	ArtifactFormatHardhat ArtifactFormat = "hardhat"
)

// Contract represents information about a discovered contract
type Contract struct {
	Name         string         `json:"name"`
	Path         string         `json:"path"`
	ArtifactPath string         `json:"artifactPath,omitempty"`
	Format       ArtifactFormat `json:"format"`
	Artifact     *Artifact      `json:"artifact,omitempty"`
}

// FullyQualifiedName returns "path/to/File.sol:Name"
func (c *Contract) FullyQualifiedName() string {
	return fmt.Sprintf("%s:%s", c.Path, c.Name)
}

// BytecodeObject represents bytecode information in a Foundry artifact
type BytecodeObject struct {
	Object         string         `json:"object"`
	LinkReferences map[string]any `json:"linkReferences"`
}

// Artifact is the deployable part of a compilation artifact, normalised across formats
type Artifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode BytecodeObject  `json:"bytecode"`
}

// foundryArtifact mirrors the fields read from out/<File>.sol/<Name>.json
type foundryArtifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode BytecodeObject  `json:"bytecode"`
}

// hardhatArtifact mirrors the fields read from artifacts/<path>/<Name>.json
type hardhatArtifact struct {
	ContractName   string          `json:"contractName"`
	SourceName     string          `json:"sourceName"`
	ABI            json.RawMessage `json:"abi"`
	Bytecode       string          `json:"bytecode"`
	LinkReferences map[string]any  `json:"linkReferences"`
}

var placeholderPattern = regexp.MustCompile(`__\$[0-9a-fA-F]{34}\$__`)

// LoadArtifact reads and normalises the artifact file behind the contract
func (c *Contract) LoadArtifact() (*Artifact, error) {
	if c.Artifact != nil {
		return c.Artifact, nil
	}

	data, err := os.ReadFile(c.ArtifactPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", c.ArtifactPath, err)
	}

	var artifact Artifact
	switch c.Format {
	case ArtifactFormatHardhat:
		var raw hardhatArtifact
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse hardhat artifact %s: %w", c.ArtifactPath, err)
		}
		artifact = Artifact{
			ABI: raw.ABI,
			Bytecode: BytecodeObject{
				Object:         raw.Bytecode,
				LinkReferences: raw.LinkReferences,
			},
		}
	default:
		var raw foundryArtifact
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse foundry artifact %s: %w", c.ArtifactPath, err)
		}
		artifact = Artifact(raw)
	}

	c.Artifact = &artifact
	return c.Artifact, nil
}

// HasBytecode reports whether the artifact carries creation code
func (a *Artifact) HasBytecode() bool {
	obj := strings.TrimPrefix(a.Bytecode.Object, "0x")
	return obj != ""
}

// IsLinked reports whether the creation code is free of library placeholders
func (a *Artifact) IsLinked() bool {
	return len(a.Bytecode.LinkReferences) == 0 && !placeholderPattern.MatchString(a.Bytecode.Object)
}

// CreationCode decodes the creation bytecode
func (a *Artifact) CreationCode() []byte {
	return common.FromHex(a.Bytecode.Object)
}

// ParsedABI parses the artifact ABI; an absent ABI yields an empty one
func (a *Artifact) ParsedABI() (*abi.ABI, error) {
	if len(a.ABI) == 0 || string(a.ABI) == "null" {
		return &abi.ABI{}, nil
	}
	parsed, err := abi.JSON(strings.NewReader(string(a.ABI)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return &parsed, nil
}
