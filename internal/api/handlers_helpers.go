// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/middleware"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/validation"
)

// respondJSON writes response with status. The request ID, when known, is
// copied into the metadata from the response header.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	if response.Metadata.RequestID == "" {
		response.Metadata.RequestID = w.Header().Get(middleware.RequestIDHeader)
	}

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	resp := models.NewSuccess(data, time.Since(start))
	respondJSON(w, status, &resp)
}

// respondError writes an error envelope. err is logged, never returned to
// the client.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("API error")
	}
	resp := models.NewError(code, message, nil)
	respondJSON(w, status, &resp)
}

// validateRequest runs validator/v10 over v.
func validateRequest(v interface{}) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	apiErr := verr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

func respondValidation(w http.ResponseWriter, apiErr *models.APIError) {
	resp := models.NewError(apiErr.Code, apiErr.Message, apiErr.Details)
	respondJSON(w, http.StatusBadRequest, &resp)
}

// paramError reports a query parameter that failed to parse.
func paramError(name string) *models.APIError {
	return &models.APIError{
		Code:    models.ErrCodeValidation,
		Message: name + " must be an integer",
		Details: map[string]interface{}{"field": name},
	}
}

// getInt64Param parses an integer query parameter. Missing values return def.
func getInt64Param(r *http.Request, key string, def int64) (int64, *models.APIError) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, paramError(key)
	}
	return n, nil
}

func getIntParam(r *http.Request, key string, def int) (int, *models.APIError) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, paramError(key)
	}
	return n, nil
}
