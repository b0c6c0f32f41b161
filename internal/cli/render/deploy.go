package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/sling/internal/domain/models"
)

const banner = "------------------------------------------"

// DeployRenderer renders the outcome of a deploy run
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render prints the deployed (or predicted) address between banners, then the details
func (r *DeployRenderer) Render(deployment *models.Deployment) error {
	address := deployment.Address.Hex()

	if deployment.DryRun {
		fmt.Fprintln(r.out, FormatWarning("Dry run: no transaction was sent"))
		fmt.Fprintln(r.out, banner)
		fmt.Fprintf(r.out, "%s would be deployed to: %s\n", deployment.ContractName, address)
		fmt.Fprintln(r.out, banner)
		fmt.Fprintf(r.out, "Network: %s (chain %d)\n", deployment.Network, deployment.ChainID)
		fmt.Fprintf(r.out, "Estimated gas: %s\n", formatNumber(deployment.EstimatedGas))
		return nil
	}

	fmt.Fprintln(r.out, banner)
	fmt.Fprintf(r.out, "%s deployed to: %s\n", deployment.ContractName, color.New(color.FgGreen, color.Bold).Sprint(address))
	fmt.Fprintln(r.out, banner)
	fmt.Fprintf(r.out, "Network: %s (chain %d)\n", deployment.Network, deployment.ChainID)
	fmt.Fprintf(r.out, "Transaction: %s\n", deployment.TxHash.Hex())
	fmt.Fprintf(r.out, "Block: %s\n", formatNumber(deployment.BlockNumber))
	fmt.Fprintf(r.out, "Gas used: %s\n", formatNumber(deployment.GasUsed))
	if deployment.ExplorerURL != "" {
		fmt.Fprintf(r.out, "Explorer: %s/address/%s\n", strings.TrimSuffix(deployment.ExplorerURL, "/"), address)
	}
	return nil
}

var _ Renderer[*models.Deployment] = (*DeployRenderer)(nil)
