// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

import "time"

// Health status values.
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// HealthStatus is returned by /health.
type HealthStatus struct {
	Status        string           `json:"status"`
	Version       string           `json:"version"`
	Database      bool             `json:"database_connected"`
	Running       bool             `json:"job_running"`
	CurrentJobID  string           `json:"current_job_id,omitempty"`
	OutputRows    map[string]int64 `json:"output_rows,omitempty"`
	Uptime        float64          `json:"uptime_seconds"`
	LastJobStatus string           `json:"last_job_status,omitempty"`
	LastJobAt     *time.Time       `json:"last_job_at,omitempty"`
}
