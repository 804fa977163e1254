// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_db_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Recommendation Job Metrics
	RecommendRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_recommend_runs_total",
			Help: "Total number of finished recommendation runs",
		},
		[]string{"trigger", "status"},
	)

	RecommendRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_recommend_run_duration_seconds",
			Help:    "Wall time of recommendation runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 180, 600, 1800},
		},
	)

	RecommendStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_recommend_stage_duration_seconds",
			Help:    "Duration of individual recommendation stages in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"stage"},
	)

	RecommendRowsWritten = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "folio_recommend_rows_written",
			Help: "Rows written to each output relation by the last successful run",
		},
		[]string{"relation"},
	)

	RecommendLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_recommend_last_success_timestamp_seconds",
			Help: "Unix time of the last successful recommendation run",
		},
	)

	RecommendRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_recommend_running",
			Help: "1 while a recommendation run is in progress",
		},
	)

	RecommendPredictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_recommend_cf_predictions_total",
			Help: "Collaborative rating predictions by outcome",
		},
		[]string{"kind"},
	)

	RecommendInterestLabelsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_recommend_interest_labels_dropped_total",
			Help: "Inferred interest labels without a genre catalog entry",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_events_published_total",
			Help: "Events published to the message bus",
		},
		[]string{"topic", "status"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_events_consumed_total",
			Help: "Events consumed from the message bus",
		},
		[]string{"topic", "outcome"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "folio_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordRun records a finished recommendation run.
func RecordRun(trigger, status string, duration time.Duration) {
	RecommendRunsTotal.WithLabelValues(trigger, status).Inc()
	RecommendRunDuration.Observe(duration.Seconds())
	if status == "succeeded" {
		RecommendLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordStage records the duration of one pipeline stage.
func RecordStage(stage string, duration time.Duration) {
	RecommendStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRowsWritten records the output relation sizes of a successful run.
func RecordRowsWritten(works, users, interests int) {
	RecommendRowsWritten.WithLabelValues("recommend_work").Set(float64(works))
	RecommendRowsWritten.WithLabelValues("recommend_user").Set(float64(users))
	RecommendRowsWritten.WithLabelValues("user_interest").Set(float64(interests))
}

// RecordPredictions adds collaborative prediction outcomes.
func RecordPredictions(found, fallback, unavailable int) {
	RecommendPredictions.WithLabelValues("found").Add(float64(found))
	RecommendPredictions.WithLabelValues("fallback").Add(float64(fallback))
	RecommendPredictions.WithLabelValues("unavailable").Add(float64(unavailable))
}

// SetRunning flips the in-progress gauge.
func SetRunning(running bool) {
	if running {
		RecommendRunning.Set(1)
		return
	}
	RecommendRunning.Set(0)
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEventPublished records a publish attempt on topic.
func RecordEventPublished(topic string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EventsPublished.WithLabelValues(topic, status).Inc()
}

// RecordEventConsumed records how a consumed message was handled.
func RecordEventConsumed(topic, outcome string) {
	EventsConsumed.WithLabelValues(topic, outcome).Inc()
}

// SetCircuitBreakerState records the state of a named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
