// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Command recommend runs one recommendation job synchronously and exits 0
// on success and 1 on failure. It reads the same configuration as the
// server; when REDIS_ENABLED is set it takes the shared run lock, and when
// NATS_ENABLED is set it publishes the job-finished event.
//
//	recommend              run with configured settings
//	recommend -json        print the job handle as JSON on stdout
//	recommend -timeout 5m  override RECOMMEND_RUN_TIMEOUT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/database"
	"github.com/tomtom215/folio/internal/eventprocessor"
	"github.com/tomtom215/folio/internal/joblock"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

type options struct {
	json    bool
	timeout time.Duration
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	fs.BoolVar(&o.json, "json", false, "print the job handle as JSON")
	fs.DurationVar(&o.timeout, "timeout", 0, "run timeout (default from RECOMMEND_RUN_TIMEOUT)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.timeout < 0 {
		return o, errors.New("timeout must not be negative")
	}
	return o, nil
}

func run(args []string, stdout io.Writer) int {
	opts, err := parseFlags(args)
	if err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	timeout := cfg.Recommend.RunTimeout
	if opts.timeout > 0 {
		timeout = opts.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	job, err := runOnce(ctx, cfg)
	if job != nil && opts.json {
		if encErr := json.NewEncoder(stdout).Encode(job); encErr != nil {
			logging.Error().Err(encErr).Msg("Failed to encode job")
		}
	}
	if err != nil {
		logging.Error().Err(err).Msg("Recommendation run failed")
		return 1
	}
	return 0
}

// runOnce wires the engine and runs one job with the CLI trigger.
func runOnce(ctx context.Context, cfg *config.Config) (*pipeline.Job, error) {
	db, err := database.New(&cfg.Database, logging.WithComponent("database"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	engine, err := pipeline.NewEngine(cfg.RecommendEngineConfig(), db, db, logging.WithComponent("recommend"), cfg.Recommend.Workers)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	var runnerOpts []pipeline.RunnerOption
	if cfg.Redis.Enabled {
		client, err := joblock.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		defer func() { _ = client.Close() }()
		runnerOpts = append(runnerOpts, pipeline.WithLocker(joblock.New(client, joblock.Options{
			Key: cfg.Redis.LockKey,
			TTL: cfg.Redis.LockTTL,
		}, logging.WithComponent("joblock"))))
	}

	// The CLI is a publisher only; an embedded server would have no subscribers.
	if cfg.NATS.Enabled && !cfg.NATS.EmbeddedServer {
		bus, err := eventprocessor.Open(eventprocessor.FromConfig(&cfg.NATS), false, logging.WithComponent("eventprocessor"))
		if err != nil {
			logging.Warn().Err(err).Msg("Event bus unavailable: job event will not be published")
		} else {
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = bus.Close(closeCtx)
			}()
			runnerOpts = append(runnerOpts, pipeline.WithObserver(bus.Publisher()))
		}
	}

	runner := pipeline.NewRunner(engine, pipeline.RunnerConfig{RunTimeout: cfg.Recommend.RunTimeout},
		logging.WithComponent("runner"), runnerOpts...)

	job, err := runner.Run(ctx, pipeline.TriggerCLI)
	if err != nil {
		return job, err
	}
	logging.Info().
		Str("job_id", job.ID).
		Dur("duration", job.Duration()).
		Interface("summary", job.Summary).
		Msg("Recommendation run finished")
	return job, nil
}
