// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Overview

The package provides metrics for:
  - Recommendation runs (count by trigger and status, duration, stage timings)
  - Output relation sizes written by the last successful run
  - Collaborative prediction outcomes (found, fallback, unavailable)
  - DuckDB query performance
  - HTTP request latency and throughput
  - Message bus publish and consume counts

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3860/metrics

# Usage

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	metrics.RecordDBQuery("select", "rating", time.Since(start), err)
*/
package metrics
