package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/sling/internal/cli/render"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		ctorArgs []string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "deploy [contract] [constructor args...]",
		Short: "Deploy a compiled contract and wait for confirmation",
		Long: `Deploy a compiled contract by name and print its address once the creation
transaction is mined.

The contract is looked up in the Foundry (out/) or Hardhat (artifacts/) build output.
Use path:Name when several sources define a contract with the same name. Without a
contract name an interactive picker is shown.

Constructor arguments follow the contract name, or are given with --args.`,
		Example: `  sling deploy Counter
  sling deploy Token "My Token" MTK 1000000 --network sepolia
  sling deploy src/v2/Vault.sol:Vault --args 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266
  sling deploy Counter --rpc-url http://127.0.0.1:8545 --dry-run`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.DeployContractParams{
				Args:   ctorArgs,
				DryRun: dryRun || app.Config.DryRun,
			}
			if len(args) > 0 {
				params.ContractRef = args[0]
				if positional := args[1:]; len(positional) > 0 {
					if len(ctorArgs) > 0 {
						return fmt.Errorf("constructor arguments given both positionally and with --args")
					}
					params.Args = positional
				}
			}

			deployment, err := app.DeployContract.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), deployment)
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).Render(deployment)
		},
	}

	cmd.Flags().StringArrayVarP(&ctorArgs, "args", "a", nil, "Constructor argument (repeatable, in order)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Estimate gas and predict the address without sending a transaction")

	return cmd
}
