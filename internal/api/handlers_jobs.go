// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/folio/internal/auth"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

// JobsQuery is the query string of the job history endpoint. Zero uses the
// configured history limit.
type JobsQuery struct {
	Limit int `query:"limit" validate:"min=0,max=1000"`
}

// RunRecommendations handles POST /api/v1/admin/recommendations/run.
func (h *Handler) RunRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	job, err := h.runner.Start(pipeline.TriggerManual)
	switch {
	case errors.Is(err, pipeline.ErrJobRunning):
		resp := models.NewError(models.ErrCodeConflict, "A recommendation job is already running", nil)
		if cur := h.runner.Current(); cur != nil {
			resp.Error.Details = map[string]interface{}{"job_id": cur.ID}
		}
		respondJSON(w, http.StatusConflict, &resp)
		return
	case err != nil:
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Runner is not accepting jobs", err)
		return
	}

	event := logging.Ctx(r.Context()).Info().Str("job_id", job.ID)
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		event = event.Str("requested_by", claims.Username)
	}
	event.Msg("recommendation job accepted")

	w.Header().Set("Location", "/api/v1/admin/recommendations/jobs/"+job.ID)
	respondSuccess(w, http.StatusAccepted, job, start)
}

// ListJobs handles GET /api/v1/admin/recommendations/jobs.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, apiErr := getIntParam(r, "limit", 0)
	if apiErr == nil {
		apiErr = validateRequest(&JobsQuery{Limit: limit})
	}
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	jobs, err := h.runner.Jobs(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to list jobs", err)
		return
	}
	respondSuccess(w, http.StatusOK, models.JobsResponse{Jobs: jobs, Count: len(jobs)}, start)
}

// GetJob handles GET /api/v1/admin/recommendations/jobs/{id}.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	job, err := h.runner.Job(r.Context(), id)
	switch {
	case errors.Is(err, pipeline.ErrJobNotFound):
		resp := models.NewError(models.ErrCodeNotFound, "Job not found", map[string]interface{}{"id": id})
		respondJSON(w, http.StatusNotFound, &resp)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to read job", err)
		return
	}
	respondSuccess(w, http.StatusOK, job, start)
}
