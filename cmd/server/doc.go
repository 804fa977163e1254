// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package main runs the recommendation service.
//
// The server loads configuration (koanf: defaults, config.yaml, then
// environment), opens DuckDB and starts a suture tree with:
//
//   - the HTTP API (read endpoints, admin run and job endpoints, /health, /metrics)
//   - the job runner, drained on shutdown
//   - the scheduler, when RECOMMEND_RUN_INTERVAL or RECOMMEND_RUN_ON_STARTUP is set
//   - the NATS trigger consumer, when NATS_ENABLED is set
//
// Optional integrations:
//
//	REDIS_ENABLED=true   run lock shared by every replica and the CLI
//	JOBS_STORE=badger    job history survives restarts
//	NATS_ENABLED=true    triggers on folio.recommend.run, events on folio.recommend.job.finished
//	JWT_SECRET=...       enables the admin endpoints
//
// SIGINT and SIGTERM cancel the running job, drain HTTP connections and
// close the database.
package main
