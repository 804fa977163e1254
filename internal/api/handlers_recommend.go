// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/folio/internal/models"
)

const (
	defaultRecommendLimit = 10
	maxRecommendLimit     = 100
)

// RecommendQuery is the query string of the recommendation endpoints.
type RecommendQuery struct {
	UserID int64 `query:"user_id" validate:"gt=0"`
	Limit  int   `query:"limit" validate:"min=1,max=100"`
}

// parseRecommendQuery reads user_id and limit. limit defaults to 10 and
// values above 100 are clamped.
func parseRecommendQuery(r *http.Request) (*RecommendQuery, *models.APIError) {
	userID, apiErr := getInt64Param(r, "user_id", 0)
	if apiErr != nil {
		return nil, apiErr
	}
	limit, apiErr := getIntParam(r, "limit", defaultRecommendLimit)
	if apiErr != nil {
		return nil, apiErr
	}
	if limit > maxRecommendLimit {
		limit = maxRecommendLimit
	}

	q := &RecommendQuery{UserID: userID, Limit: limit}
	if apiErr := validateRequest(q); apiErr != nil {
		return nil, apiErr
	}
	return q, nil
}

// RecommendWorks handles GET /api/v1/recommend/works.
func (h *Handler) RecommendWorks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, apiErr := parseRecommendQuery(r)
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	recs, err := h.store.WorkRecommendations(r.Context(), q.UserID, q.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to read work recommendations", err)
		return
	}

	works := make([]models.ScoredWork, len(recs))
	for i, rec := range recs {
		works[i] = models.ScoredWork{WorkID: rec.WorkID, Score: rec.Score}
	}
	respondSuccess(w, http.StatusOK, models.WorkRecommendationsResponse{UserID: q.UserID, Works: works}, start)
}

// RecommendUsers handles GET /api/v1/recommend/users.
func (h *Handler) RecommendUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, apiErr := parseRecommendQuery(r)
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	recs, err := h.store.UserRecommendations(r.Context(), q.UserID, q.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to read user recommendations", err)
		return
	}

	users := make([]models.ScoredUser, len(recs))
	for i, rec := range recs {
		users[i] = models.ScoredUser{UserID: rec.TargetID, Score: rec.Score}
	}
	respondSuccess(w, http.StatusOK, models.UserRecommendationsResponse{UserID: q.UserID, Users: users}, start)
}

// RecommendInterests handles GET /api/v1/recommend/interests.
func (h *Handler) RecommendInterests(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, apiErr := getInt64Param(r, "user_id", 0)
	if apiErr == nil {
		apiErr = validateRequest(&RecommendQuery{UserID: userID, Limit: 1})
	}
	if apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	genres, err := h.store.Interests(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to read interests", err)
		return
	}

	interests := make([]models.InterestGenre, len(genres))
	for i, g := range genres {
		interests[i] = models.InterestGenre{GenreID: g.GenreID, Label: g.Label}
	}
	respondSuccess(w, http.StatusOK, models.InterestsResponse{UserID: userID, Interests: interests}, start)
}
