package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/domain/models"
	"github.com/trebuchet-org/sling/internal/usecase"
)

const maxSuggestions = 3

// Indexer discovers compiled contracts in Foundry and Hardhat artifact directories
type Indexer struct {
	projectRoot string
	outDir      string
	hardhatDir  string
	log         *slog.Logger

	contracts map[string]*models.Contract   // key: "path:Name"
	byName    map[string][]*models.Contract // key: contract name
	indexed   bool
	mu        sync.RWMutex
}

// NewIndexer creates an indexer for the project described by cfg.
// Artifacts are read lazily on first lookup.
func NewIndexer(cfg *config.RuntimeConfig, log *slog.Logger) *Indexer {
	outDir := cfg.FoundryConfig.OutDir()
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(cfg.ProjectRoot, outDir)
	}
	return &Indexer{
		projectRoot: cfg.ProjectRoot,
		outDir:      outDir,
		hardhatDir:  filepath.Join(cfg.ProjectRoot, "artifacts"),
		log:         log.With("component", "indexer"),
	}
}

// Index walks the artifact directories and rebuilds the index
func (i *Indexer) Index() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.contracts = make(map[string]*models.Contract)
	i.byName = make(map[string][]*models.Contract)

	found := false
	if isDir(i.outDir) {
		found = true
		if err := i.walk(i.outDir, i.processFoundryArtifact); err != nil {
			return fmt.Errorf("failed to index %s: %w", i.outDir, err)
		}
	}
	if isDir(i.hardhatDir) {
		found = true
		if err := i.walk(i.hardhatDir, i.processHardhatArtifact); err != nil {
			return fmt.Errorf("failed to index %s: %w", i.hardhatDir, err)
		}
	}
	if !found {
		return domain.ErrNoArtifacts
	}

	i.indexed = true
	i.log.Debug("indexed contracts", "count", len(i.contracts))
	return nil
}

func (i *Indexer) walk(root string, process func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}
		return process(path)
	})
}

// processFoundryArtifact indexes out/<File>.sol/<Name>.json
func (i *Indexer) processFoundryArtifact(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var artifact struct {
		Bytecode struct {
			Object string `json:"object"`
		} `json:"bytecode"`
		Metadata struct {
			Settings struct {
				CompilationTarget map[string]string `json:"compilationTarget"`
			} `json:"settings"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(data, &artifact); err != nil {
		i.log.Debug("skipping unreadable artifact", "path", path, "error", err)
		return nil
	}
	if !hasCode(artifact.Bytecode.Object) {
		return nil
	}

	var name, source string
	for src, contract := range artifact.Metadata.Settings.CompilationTarget {
		source, name = src, contract
		break
	}
	if name == "" {
		// Artifacts built without metadata: out/Counter.sol/Counter[.0.8.20].json
		name = strings.SplitN(filepath.Base(path), ".", 2)[0]
		source = filepath.Base(filepath.Dir(path))
	}

	i.add(&models.Contract{
		Name:         name,
		Path:         source,
		ArtifactPath: path,
		Format:       models.ArtifactFormatFoundry,
	})
	return nil
}

// processHardhatArtifact indexes artifacts/<source path>/<Name>.json
func (i *Indexer) processHardhatArtifact(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var artifact struct {
		ContractName string `json:"contractName"`
		SourceName   string `json:"sourceName"`
		Bytecode     string `json:"bytecode"`
	}
	if err := json.Unmarshal(data, &artifact); err != nil {
		i.log.Debug("skipping unreadable artifact", "path", path, "error", err)
		return nil
	}
	if artifact.ContractName == "" || !hasCode(artifact.Bytecode) {
		return nil
	}

	i.add(&models.Contract{
		Name:         artifact.ContractName,
		Path:         artifact.SourceName,
		ArtifactPath: path,
		Format:       models.ArtifactFormatHardhat,
	})
	return nil
}

func (i *Indexer) add(c *models.Contract) {
	key := c.FullyQualifiedName()
	if _, exists := i.contracts[key]; exists {
		// Same source compiled with several compiler versions
		return
	}
	i.contracts[key] = c
	i.byName[c.Name] = append(i.byName[c.Name], c)
}

func (i *Indexer) ensureIndexed() error {
	i.mu.RLock()
	indexed := i.indexed
	i.mu.RUnlock()
	if indexed {
		return nil
	}
	return i.Index()
}

// GetContract resolves "Name" or "path/to/File.sol:Name"
func (i *Indexer) GetContract(ctx context.Context, ref string) (*models.Contract, error) {
	if err := i.ensureIndexed(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	ref = strings.TrimSpace(ref)
	if strings.Contains(ref, ":") {
		if c, ok := i.contracts[ref]; ok {
			return c, nil
		}
		return nil, domain.ContractNotFoundError{
			Ref:         ref,
			Suggestions: suggest(ref, lo.Keys(i.contracts)),
		}
	}

	matches := i.byName[ref]
	switch len(matches) {
	case 0:
		return nil, domain.ContractNotFoundError{
			Ref:         ref,
			Suggestions: suggest(ref, lo.Keys(i.byName)),
		}
	case 1:
		return matches[0], nil
	default:
		return nil, domain.AmbiguousContractError{
			Ref: ref,
			Matches: lo.Map(matches, func(c *models.Contract, _ int) domain.ContractCandidate {
				return domain.ContractCandidate{Name: c.Name, Path: c.Path}
			}),
		}
	}
}

// SearchContracts returns deployable contracts whose name or source path contains query,
// sorted by fully qualified name. An empty query returns everything.
func (i *Indexer) SearchContracts(ctx context.Context, query string) ([]*models.Contract, error) {
	if err := i.ensureIndexed(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	results := lo.Filter(lo.Values(i.contracts), func(c *models.Contract, _ int) bool {
		return q == "" ||
			strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Path), q)
	})
	slices.SortFunc(results, func(a, b *models.Contract) int {
		return strings.Compare(a.FullyQualifiedName(), b.FullyQualifiedName())
	})
	return results, nil
}

// suggest returns up to maxSuggestions fuzzy matches for ref, best first
func suggest(ref string, candidates []string) []string {
	slices.Sort(candidates)
	matches := fuzzy.Find(ref, candidates)
	names := lo.Map(matches, func(m fuzzy.Match, _ int) string { return m.Str })
	if len(names) > maxSuggestions {
		names = names[:maxSuggestions]
	}
	return names
}

func hasCode(object string) bool {
	return strings.TrimPrefix(object, "0x") != ""
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

var _ usecase.ContractRepository = (*Indexer)(nil)
