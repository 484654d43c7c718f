package cli

import (
	"github.com/spf13/cobra"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/constants"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Invoice dashboard backend",
		Long:          "Serves the invoice dashboard API and manages its database schema.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (defaults to $CONFIG_FILE)")

	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newMigrateCmd(&configPath))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

const serviceName = constants.ApplicationTag
