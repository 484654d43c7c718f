package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/config"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/db"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/logger"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseURL, err := config.LoadDatabaseURL(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log, err := logger.New("", serviceName, os.Getenv("LOG_LEVEL"))
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			return db.Migrate(cmd.Context(), log, databaseURL)
		},
	}
}
