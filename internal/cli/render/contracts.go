package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/sling/internal/domain/models"
	"github.com/trebuchet-org/sling/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ContractsRenderer renders the deployable contracts of a project
type ContractsRenderer struct {
	out io.Writer
}

// NewContractsRenderer creates a new contracts renderer
func NewContractsRenderer(out io.Writer) *ContractsRenderer {
	return &ContractsRenderer{out: out}
}

// Render prints a table of contract name, source path and artifact format
func (r *ContractsRenderer) Render(result *usecase.ListContractsResult) error {
	if len(result.Contracts) == 0 {
		fmt.Fprintln(r.out, "No deployable contracts found")
		return nil
	}

	title := cases.Title(language.English)
	t := newTable(r.out)
	t.AppendHeader(table.Row{"Contract", "Source", "Format"})
	for _, c := range result.Contracts {
		t.AppendRow(table.Row{c.Name, c.Path, title.String(string(c.Format))})
	}
	t.Render()

	fmt.Fprintf(r.out, "\n%d contract(s)\n", len(result.Contracts))
	return nil
}

type contractJSON struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Format   string `json:"format"`
	Artifact string `json:"artifact,omitempty"`
}

// RenderJSON prints the contracts as a JSON array
func (r *ContractsRenderer) RenderJSON(result *usecase.ListContractsResult) error {
	return RenderJSON(r.out, lo.Map(result.Contracts, func(c *models.Contract, _ int) contractJSON {
		return contractJSON{
			Name:     c.Name,
			Path:     c.Path,
			Format:   string(c.Format),
			Artifact: c.ArtifactPath,
		}
	}))
}

var _ Renderer[*usecase.ListContractsResult] = (*ContractsRenderer)(nil)
