package contracts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/domain/models"
)

const testBytecode = "0x600a600c600039600a6000f3602a60505260206050f3"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func foundryArtifact(source, name, bytecode string) string {
	return `{
  "abi": [],
  "bytecode": {"object": "` + bytecode + `", "linkReferences": {}},
  "metadata": {"settings": {"compilationTarget": {"` + source + `": "` + name + `"}}}
}`
}

func hardhatArtifact(source, name, bytecode string) string {
	return `{
  "_format": "hh-sol-artifact-1",
  "contractName": "` + name + `",
  "sourceName": "` + source + `",
  "abi": [],
  "bytecode": "` + bytecode + `",
  "linkReferences": {}
}`
}

func newTestIndexer(root string) *Indexer {
	cfg := &config.RuntimeConfig{ProjectRoot: root}
	return NewIndexer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestIndexer_Foundry(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "out/Counter.sol/Counter.json"), foundryArtifact("src/Counter.sol", "Counter", testBytecode))
	writeFile(t, filepath.Join(root, "out/ICounter.sol/ICounter.json"), foundryArtifact("src/ICounter.sol", "ICounter", "0x"))
	writeFile(t, filepath.Join(root, "out/build-info/abc.json"), `{"id": "abc"}`)

	idx := newTestIndexer(root)
	ctx := context.Background()

	c, err := idx.GetContract(ctx, "Counter")
	require.NoError(t, err)
	assert.Equal(t, "Counter", c.Name)
	assert.Equal(t, "src/Counter.sol", c.Path)
	assert.Equal(t, models.ArtifactFormatFoundry, c.Format)

	artifact, err := c.LoadArtifact()
	require.NoError(t, err)
	assert.True(t, artifact.HasBytecode())
	assert.True(t, artifact.IsLinked())

	byPath, err := idx.GetContract(ctx, "src/Counter.sol:Counter")
	require.NoError(t, err)
	assert.Same(t, c, byPath)

	_, err = idx.GetContract(ctx, "ICounter")
	assert.ErrorIs(t, err, domain.ErrContractNotFound, "interfaces have no creation code")
}

func TestIndexer_FoundryWithoutMetadata(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "out/Token.sol/Token.0.8.24.json"),
		`{"abi": [], "bytecode": {"object": "`+testBytecode+`"}}`)

	c, err := newTestIndexer(root).GetContract(context.Background(), "Token")
	require.NoError(t, err)
	assert.Equal(t, "Token.sol", c.Path)
}

func TestIndexer_CustomOutDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "build/Counter.sol/Counter.json"), foundryArtifact("src/Counter.sol", "Counter", testBytecode))

	cfg := &config.RuntimeConfig{
		ProjectRoot: root,
		FoundryConfig: &config.FoundryConfig{
			Profile: map[string]config.ProfileConfig{"default": {OutPath: "build"}},
		},
	}
	idx := NewIndexer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := idx.GetContract(context.Background(), "Counter")
	require.NoError(t, err)
}

func TestIndexer_Hardhat(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "artifacts/contracts/Lock.sol/Lock.json"), hardhatArtifact("contracts/Lock.sol", "Lock", testBytecode))
	writeFile(t, filepath.Join(root, "artifacts/contracts/Lock.sol/Lock.dbg.json"), `{"_format": "hh-sol-dbg-1", "buildInfo": "../../build-info/x.json"}`)
	writeFile(t, filepath.Join(root, "artifacts/build-info/x.json"), `{"id": "x"}`)

	idx := newTestIndexer(root)
	c, err := idx.GetContract(context.Background(), "Lock")
	require.NoError(t, err)
	assert.Equal(t, "contracts/Lock.sol", c.Path)
	assert.Equal(t, models.ArtifactFormatHardhat, c.Format)

	artifact, err := c.LoadArtifact()
	require.NoError(t, err)
	assert.Equal(t, testBytecode, artifact.Bytecode.Object)

	all, err := idx.SearchContracts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIndexer_Ambiguous(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "out/B.sol/Token.json"), foundryArtifact("src/b/Token.sol", "Token", testBytecode))
	writeFile(t, filepath.Join(root, "out/A.sol/Token.json"), foundryArtifact("src/a/Token.sol", "Token", testBytecode))

	idx := newTestIndexer(root)
	_, err := idx.GetContract(context.Background(), "Token")
	require.Error(t, err)

	var ambiguous domain.AmbiguousContractError
	require.True(t, errors.As(err, &ambiguous))
	assert.Len(t, ambiguous.Matches, 2)
	assert.Contains(t, err.Error(), "  - src/a/Token.sol:Token\n  - src/b/Token.sol:Token")

	c, err := idx.GetContract(context.Background(), "src/b/Token.sol:Token")
	require.NoError(t, err)
	assert.Equal(t, "src/b/Token.sol", c.Path)
}

func TestIndexer_NotFoundSuggestions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "out/Counter.sol/Counter.json"), foundryArtifact("src/Counter.sol", "Counter", testBytecode))
	writeFile(t, filepath.Join(root, "out/Lock.sol/Lock.json"), foundryArtifact("src/Lock.sol", "Lock", testBytecode))

	_, err := newTestIndexer(root).GetContract(context.Background(), "Countr")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrContractNotFound)

	var notFound domain.ContractNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{"Counter"}, notFound.Suggestions)
	assert.Contains(t, err.Error(), "did you mean Counter?")
}

func TestIndexer_NoArtifacts(t *testing.T) {
	idx := newTestIndexer(t.TempDir())

	_, err := idx.GetContract(context.Background(), "Counter")
	assert.ErrorIs(t, err, domain.ErrNoArtifacts)

	_, err = idx.SearchContracts(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNoArtifacts)
}

func TestIndexer_SearchContracts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "out/Counter.sol/Counter.json"), foundryArtifact("src/Counter.sol", "Counter", testBytecode))
	writeFile(t, filepath.Join(root, "out/Lock.sol/Lock.json"), foundryArtifact("src/Lock.sol", "Lock", testBytecode))
	writeFile(t, filepath.Join(root, "artifacts/contracts/Project.sol/Project.json"), hardhatArtifact("contracts/Project.sol", "Project", testBytecode))

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query lists all sorted", query: "", want: []string{"contracts/Project.sol:Project", "src/Counter.sol:Counter", "src/Lock.sol:Lock"}},
		{name: "name substring", query: "lock", want: []string{"src/Lock.sol:Lock"}},
		{name: "path substring", query: "contracts/", want: []string{"contracts/Project.sol:Project"}},
		{name: "no match", query: "vault", want: []string{}},
	}

	idx := newTestIndexer(root)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := idx.SearchContracts(context.Background(), tt.query)
			require.NoError(t, err)

			got := make([]string, 0, len(results))
			for _, c := range results {
				got = append(got, c.FullyQualifiedName())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArtifact_UnlinkedBytecode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "out/Vault.sol/Vault.json"), `{
  "abi": [],
  "bytecode": {
    "object": "0x6080__$1234567890abcdef1234567890abcdef12$__6000",
    "linkReferences": {"src/Math.sol": {"Math": [{"start": 2, "length": 20}]}}
  },
  "metadata": {"settings": {"compilationTarget": {"src/Vault.sol": "Vault"}}}
}`)

	c, err := newTestIndexer(root).GetContract(context.Background(), "Vault")
	require.NoError(t, err)

	artifact, err := c.LoadArtifact()
	require.NoError(t, err)
	assert.False(t, artifact.IsLinked())
}
