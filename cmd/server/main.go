// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

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

	"github.com/tomtom215/folio/internal/api"
	"github.com/tomtom215/folio/internal/auth"
	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/database"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/recommend/pipeline"
	"github.com/tomtom215/folio/internal/supervisor"
	"github.com/tomtom215/folio/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

//nolint:gocyclo // sequential wiring of optional components
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Msg("Starting Folio recommendation service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database, logging.WithComponent("database"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	engine, err := pipeline.NewEngine(cfg.RecommendEngineConfig(), db, db, logging.WithComponent("recommend"), cfg.Recommend.Workers)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	var opts []pipeline.RunnerOption

	store, closeStore, err := initJobStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	opts = append(opts, pipeline.WithJobStore(store))

	locker, closeLocker, err := initLocker(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLocker()
	if locker != nil {
		opts = append(opts, pipeline.WithLocker(locker))
	}

	bus, err := initNATS(cfg)
	if err != nil {
		return err
	}
	if bus != nil {
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := bus.Close(closeCtx); err != nil {
				logging.Error().Err(err).Msg("Error closing event bus")
			}
		}()
		opts = append(opts, pipeline.WithObserver(bus.Publisher()))
	}

	runner := pipeline.NewRunner(engine, pipeline.RunnerConfig{
		RunTimeout:   cfg.Recommend.RunTimeout,
		HistoryLimit: cfg.Jobs.HistoryLimit,
	}, logging.WithComponent("runner"), opts...)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           newRouter(cfg, db, runner).Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(
		logging.NewSlogLogger(logging.WithComponent("supervisor")),
		supervisor.TreeConfig{ShutdownTimeout: cfg.Server.ShutdownTimeout},
	)
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddJobService(services.NewRunnerService(runner, cfg.Server.ShutdownTimeout))
	if cfg.Recommend.RunInterval > 0 || cfg.Recommend.RunOnStartup {
		tree.AddJobService(services.NewSchedulerService(runner, services.SchedulerConfig{
			Interval:     cfg.Recommend.RunInterval,
			RunOnStartup: cfg.Recommend.RunOnStartup,
		}, logging.WithComponent("scheduler")))
	}
	if bus != nil {
		tree.AddMessagingService(services.NewTriggerService(bus, runner))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	err = tree.Serve(ctx)

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	logging.Info().Msg("Folio stopped gracefully")
	return nil
}

func newRouter(cfg *config.Config, db *database.DB, runner *pipeline.Runner) *api.Router {
	// A nil interface, not a nil *JWTManager, keeps the admin routes closed.
	var tokens auth.TokenValidator
	if cfg.Security.JWTSecret != "" {
		m, err := auth.NewJWTManager(cfg.Security.JWTSecret)
		if err == nil {
			tokens = m
		}
	} else {
		logging.Warn().Msg("JWT_SECRET is not set: admin endpoints are disabled")
	}

	if cfg.IsProduction() && len(cfg.Security.CORSOrigins) == 0 {
		logging.Info().Msg("CORS_ORIGINS is empty: cross-origin requests are rejected")
	}

	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	return api.NewRouter(api.NewHandler(db, runner, version), mw, tokens, cfg.Security.AdminRole)
}
