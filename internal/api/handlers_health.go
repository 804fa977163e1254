// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/models"
)

const healthTimeout = 2 * time.Second

// Health handles GET /health. It answers 503 when DuckDB does not respond.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status := models.HealthStatus{
		Status:  models.HealthOK,
		Version: h.version,
		Running: h.runner.IsRunning(),
		Uptime:  time.Since(h.startTime).Seconds(),
	}

	if err := h.store.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("health check: database ping failed")
		status.Status = models.HealthDegraded
	} else {
		status.Database = true
		if counts, err := h.store.OutputCounts(ctx); err == nil {
			status.OutputRows = counts
		}
	}

	if cur := h.runner.Current(); cur != nil {
		if status.Running {
			status.CurrentJobID = cur.ID
		}
		status.LastJobStatus = string(cur.Status)
		at := cur.CreatedAt
		status.LastJobAt = &at
	}

	code := http.StatusOK
	if !status.Database {
		code = http.StatusServiceUnavailable
	}
	respondSuccess(w, code, status, start)
}
