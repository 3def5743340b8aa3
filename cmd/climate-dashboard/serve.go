package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/climate-scenario-dashboard/internal/api/http"
	"github.com/i474232898/climate-scenario-dashboard/internal/config"
	"github.com/i474232898/climate-scenario-dashboard/internal/observability"
	"github.com/i474232898/climate-scenario-dashboard/internal/scheduler"
)

var serveAccessLog bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the datasets and serve the dashboard over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveAccessLog, "access-log", true, "Log every HTTP request")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := bootstrap(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}

	autoplay := scheduler.New(svc, cfg.AutoplayInterval, logger, metrics)
	svc.AttachAutoplay(autoplay)
	defer autoplay.Stop()

	app := httpapi.NewApp(httpapi.ServerConfig{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		AccessLog:    serveAccessLog,
	}, logger)
	httpapi.RegisterRoutes(app, svc)
	httpapi.RegisterPages(app, svc)

	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
		return err
	}
	logger.Info("shut down")
	return nil
}
