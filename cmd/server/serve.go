package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/vidtube/backend/internal/router"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/anonto42/vidtube/backend/pkg/config"
	"github.com/anonto42/vidtube/backend/pkg/logger"
	"github.com/anonto42/vidtube/backend/pkg/metrics"
	"github.com/anonto42/vidtube/backend/pkg/telemetry"
	"github.com/anonto42/vidtube/backend/pkg/validators"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.InitTracer(ctx, telemetry.Config{
		Enabled:      cfg.OTelEnabled,
		Endpoint:     cfg.OTelEndpoint,
		SamplingRate: cfg.OTelSamplingRate,
	})
	if err != nil {
		return err
	}
	if tp != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Log.Warn("Tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	backend, err := router.OpenBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()
	if backend.DB != nil {
		if err := router.Migrate(ctx, backend.DB); err != nil {
			return err
		}
	}

	verifier, err := router.NewVerifier(ctx, cfg, backend.Deps.Users)
	if err != nil {
		return err
	}

	metrics.Initialize()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e)
	router.SetupRoutes(e, services.New(backend.Deps), verifier)

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Metrics server failed", zap.Error(err))
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Log.Info("Starting server", zap.String("port", cfg.Port), zap.String("backend", cfg.StoreBackend))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Log.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server shutdown failed", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Metrics server shutdown failed", zap.Error(err))
	}
	return nil
}
