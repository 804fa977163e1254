// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package middleware provides the HTTP middleware shared by the read API and
the admin endpoints.

All middleware use the chi signature func(http.Handler) http.Handler:

  - RequestID: accepts or generates X-Request-ID and seeds the logging
    context with request and correlation IDs
  - AccessLog: one structured zerolog line per request
  - PrometheusMetrics: request counters and latency histograms labelled by
    the chi route pattern, so path parameters never explode cardinality

Typical order:

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
