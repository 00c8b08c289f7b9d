// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/cooccur/internal/api"
	"github.com/tomtom215/cooccur/internal/config"
	"github.com/tomtom215/cooccur/internal/logging"
	"github.com/tomtom215/cooccur/internal/metrics"
	"github.com/tomtom215/cooccur/internal/recommend"
	"github.com/tomtom215/cooccur/internal/supervisor"
	"github.com/tomtom215/cooccur/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().Str("config", cfg.String()).Msg("Starting Cooccur with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := initStore(ctx, cfg, logging.WithComponent("store"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()
	logging.Info().Str("backend", store.Name()).Msg("Store initialized")

	engine, err := recommend.NewEngine(store,
		&recommend.Config{TopLimit: cfg.Store.TopLimit},
		logging.Logger(),
		recommend.WithRecorder(metrics.EngineRecorder{}),
	)
	if err != nil {
		store.Close() //nolint:errcheck // exiting
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	tree, err := supervisor.NewSupervisorTree(
		logging.NewSlogLogger(logging.WithComponent("supervisor")),
		supervisor.TreeConfig{ShutdownTimeout: cfg.Server.ShutdownTimeout},
	)
	if err != nil {
		store.Close() //nolint:errcheck // exiting
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	if cfg.Refresh.Enabled {
		tree.AddDataService(services.NewRefreshService(engine, services.RefreshServiceConfig{
			Interval:   cfg.Refresh.Interval,
			RunOnStart: cfg.Refresh.RunOnStart,
		}, logging.Logger()))
		logging.Info().Dur("interval", cfg.Refresh.Interval).Msg("Refresh service added to supervisor tree")
	}

	if cfg.NATS.Enabled {
		svc, err := initIngest(cfg, engine, logging.Logger())
		if err != nil {
			store.Close() //nolint:errcheck // exiting
			logging.Fatal().Err(err).Msg("Failed to initialize NATS ingestion")
		}
		tree.AddMessagingService(svc)
		logging.Info().Str("url", cfg.NATS.URL).Msg("NATS ingestion added to supervisor tree")
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      newRouter(cfg, engine, store.Name()),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// newRouter builds the HTTP handler from config.
func newRouter(cfg *config.Config, engine api.Engine, backend string) http.Handler {
	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled

	handler := api.NewHandler(engine, backend)
	return api.NewRouter(handler, api.NewChiMiddleware(mwConfig)).SetupChi()
}
