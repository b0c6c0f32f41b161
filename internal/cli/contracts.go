package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/sling/internal/cli/render"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// NewContractsCmd creates the contracts command
func NewContractsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contracts [filter]",
		Short: "List deployable contracts found in the build output",
		Long: `List every contract with creation bytecode in out/ (Foundry) or artifacts/ (Hardhat).
An optional filter matches contract names and source paths, case-insensitively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListContractsParams{}
			if len(args) > 0 {
				params.Filter = args[0]
			}

			result, err := app.ListContracts.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewContractsRenderer(cmd.OutOrStdout())
			if app.Config.JSON {
				return renderer.RenderJSON(result)
			}
			return renderer.Render(result)
		},
	}

	return cmd
}
