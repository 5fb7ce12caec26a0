package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/light-bringer/feliz-storefront/internal/config"
	"github.com/light-bringer/feliz-storefront/internal/services"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd.Context())
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	cfg, logger, err := c.setup((*config.Config).Validate)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting storefront",
		zap.String("store_domain", cfg.PublicStoreDomain),
		zap.String("api_version", cfg.PublicStorefrontAPIVersion),
		zap.String("analytics_sink", cfg.AnalyticsSink),
		zap.String("addr", cfg.Addr()),
	)

	// 1. Initialize service dependencies (DI container)
	serviceOpts, err := services.NewServiceOptions(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}

	// 2. Start HTTP server in background
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           serviceOpts.Router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 3. Wait for a signal or a listener failure
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully...")
	case err := <-serveErr:
		runErr = fmt.Errorf("HTTP server error: %w", err)
	}

	// 4. Stop accepting requests, then drain queued cart actions
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := serviceOpts.Close(shutdownCtx); err != nil {
		logger.Error("Failed to release dependencies", zap.Error(err))
	}
	return runErr
}
