package cli

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mveld/empadmin/internal/api"
	"github.com/mveld/empadmin/internal/config"
	"github.com/mveld/empadmin/internal/factory"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin daemon",
		Long: `Start the admin daemon: connect to the game server's telnet console,
poll the player list, announce joins and leaves, send scheduled messages,
and serve the JSON API for the other commands.

Configuration comes from the environment (RCON_HOST, RCON_PORT, RCON_PASS,
ADMIN_PASSWORD, STORAGE_TYPE, and friends).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	appCfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		return err
	}

	app, err := factory.New(appCfg, factory.Options{Logger: logger})
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	defer func() { _ = app.Close() }()

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		AuthService:   app.Auth,
		Registry:      app.Registry,
		Actions:       app.Actions,
		Scheduler:     app.Scheduler,
		Monitor:       app.Monitor,
		Storage:       app.Storage,
		Hub:           app.Hub,
		ConsoleLog:    app.ConsoleLog,
		ServerControl: app.ServerControl,
	})

	serverCfg := api.DefaultServerConfig()
	if host, port, err := net.SplitHostPort(appCfg.HTTPAddr); err == nil {
		serverCfg.Host = host
		if p, err := strconv.Atoi(port); err == nil {
			serverCfg.Port = p
		}
	}
	server := api.NewServer(router, serverCfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Monitor.Run(ctx)
	defer app.Monitor.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
	}

	logger.Info("daemon stopped")
	return nil
}
