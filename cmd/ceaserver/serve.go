package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/luarss/cea-live/internal/app"
	"github.com/luarss/cea-live/internal/config"
	"github.com/luarss/cea-live/internal/httpapi"
	"github.com/luarss/cea-live/internal/logging"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server that exposes the transactions dataset via
the documented HTTP contract: dataset metadata, paginated rows,
cross-tab analytics, time-series, market insights, and agent roll-ups,
plus /health and /metrics.

Example:
  ceaserver serve
  ceaserver serve --config config.yaml
  ceaserver serve --port 9000 --host 0.0.0.0`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveHost, "host", "", "", "Override the configured server host")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Override the configured server port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	logLevel := logging.LevelInfo
	if cfg.Log.Level != "" {
		logLevel = logging.Level(cfg.Log.Level)
	}
	logger, err := logging.NewProduction(logLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      httpapi.NewServer(a).Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server listening", logging.String("address", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-sigChan:
		logger.Info(ctx, "shutdown signal received")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info(ctx, "server stopped")
	return nil
}
