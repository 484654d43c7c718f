package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/bootstrap"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/config"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/logger"
	srv "github.com/AlibekovAA/invoice-dashboard/internal/common/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadDashboardConfig(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if migrate {
				cfg.MigrateOnStart = true
			}

			log, err := logger.New(cfg.LogDir, serviceName, cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, cfg, log)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply database migrations before serving")
	return cmd
}

func runServer(ctx context.Context, cfg config.DashboardConfig, log *logger.Logger) error {
	appCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	app, err := bootstrap.NewApp(appCtx, cfg, log)
	if err != nil {
		log.Errorf("failed to start: %v", err)
		return err
	}
	defer app.Close()

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, app.Handler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Info("dashboard: stopping background loops")
			cancel()
			return nil
		},
	}

	return srv.Run(ctx, server, serverConfig, log, serviceName, shutdownHooks)
}
