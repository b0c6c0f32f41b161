package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render prints one row per network with its chain ID and whether its node answered
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in foundry.toml [rpc_endpoints]")
		return nil
	}

	t := newTable(r.out)
	t.AppendHeader(table.Row{"Network", "Chain ID", "Explorer", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	for _, network := range result.Networks {
		var chainID any = "-"
		if network.ChainID != 0 {
			chainID = network.ChainID
		}
		if network.Error != nil {
			t.AppendRow(table.Row{network.Name, chainID, network.ExplorerURL, FormatError(network.Error.Error())})
			continue
		}
		t.AppendRow(table.Row{network.Name, chainID, network.ExplorerURL, FormatSuccess("reachable")})
	}

	t.Render()
	return nil
}

type networkJSON struct {
	Name        string `json:"name"`
	ChainID     uint64 `json:"chainId,omitempty"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	Error       string `json:"error,omitempty"`
}

// RenderJSON prints the networks as a JSON array
func (r *NetworksRenderer) RenderJSON(result *usecase.ListNetworksResult) error {
	networks := make([]networkJSON, 0, len(result.Networks))
	for _, n := range result.Networks {
		entry := networkJSON{Name: n.Name, ChainID: n.ChainID, ExplorerURL: n.ExplorerURL}
		if n.Error != nil {
			entry.Error = n.Error.Error()
		}
		networks = append(networks, entry)
	}
	return RenderJSON(r.out, networks)
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
