package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/sling/internal/adapters/progress"
	"github.com/trebuchet-org/sling/internal/app"
	"github.com/trebuchet-org/sling/internal/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// AppFactory builds the application for one command invocation
type AppFactory func(v *viper.Viper, sink usecase.ProgressSink) (*app.App, error)

// NewRootCmd creates the root command wired with the generated injector
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithFactory(app.InitApp)
}

// NewRootCmdWithFactory creates the root command using factory to build the app
func NewRootCmdWithFactory(factory AppFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sling",
		Short: "Deploy compiled smart contracts from Foundry and Hardhat projects",
		Long: `sling deploys a single compiled contract to an Ethereum network, waits for the
creation transaction to be mined and prints the new contract address.

Artifacts are read from out/ (Foundry) or artifacts/ (Hardhat); sling never compiles.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			// JSON output keeps stdout free of status lines
			var sink usecase.ProgressSink
			if v.GetBool("json") {
				sink = progress.NewNopSink()
			} else {
				sink = progress.NewSpinnerProgressReporter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			}

			appInstance, err := factory(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network from foundry.toml [rpc_endpoints] (defaults to localhost)")
	rootCmd.PersistentFlags().String("rpc-url", "", "RPC endpoint to use instead of a named network")
	rootCmd.PersistentFlags().Uint64("chain-id", 0, "Expected chain ID; the deploy fails if the node reports another")
	rootCmd.PersistentFlags().String("private-key", "", "Deployer private key (or SLING_PRIVATE_KEY / PRIVATE_KEY)")
	rootCmd.PersistentFlags().String("from", "", "Expected deployer address, checked against the private key")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Give up after this long (default 5m)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	contractsCmd := NewContractsCmd()
	contractsCmd.GroupID = "management"
	rootCmd.AddCommand(contractsCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs cmd and converts its outcome into a process exit code
func Execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
