package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"msdashboard/internal/app"
	"msdashboard/internal/config"
	"msdashboard/internal/server"
	"msdashboard/pkg/logging"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveConfigPath specifies the configuration file to load. When empty, the
// default file name in the working directory is used.
var serveConfigPath string

// serveCmd starts the HTTP server that exposes the combined dependency
// graph. The configuration file is watched; changes rebuild the aggregation
// pipeline without dropping the listener.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dependency graph over HTTP",
	Long: `Starts the msdashboard server. Every GET /graph request performs one
aggregation run against the configured service registry and returns the
combined dependency graph as JSON.

The configuration file is watched for changes; edits are applied to
subsequent runs without restarting the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to the configuration file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	appCfg := app.NewConfig(serveDebug, false, serveConfigPath)
	application, err := app.NewApplication(appCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(application.DashboardConfig().Server, application.Orchestrator())

	watcher := config.NewWatcher(appCfg.ConfigFilePath(), 0)
	changes, err := watcher.Start(ctx)
	if err != nil {
		logging.Warn("Serve", "Config watching disabled: %v", err)
	} else {
		go reloadOnChange(ctx, appCfg.ConfigFilePath(), changes, srv)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("Serve", "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// reloadOnChange rebuilds the aggregation pipeline when the config file
// changes. A reload that fails validation keeps the previous pipeline.
func reloadOnChange(ctx context.Context, path string, changes <-chan struct{}, srv *server.Server) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			cfg, err := config.LoadConfig(path)
			if err != nil {
				logging.Error("Serve", err, "Reload failed, keeping previous configuration")
				continue
			}
			if err := config.Validate(cfg); err != nil {
				logging.Error("Serve", err, "Reloaded configuration is invalid, keeping previous configuration")
				continue
			}
			orch, err := app.BuildOrchestrator(cfg)
			if err != nil {
				logging.Error("Serve", err, "Failed to rebuild pipeline, keeping previous configuration")
				continue
			}
			srv.SetSource(orch)
			logging.Info("Serve", "Configuration reloaded from %s", path)
		}
	}
}
