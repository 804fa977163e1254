// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestNewSuccess(t *testing.T) {
	resp := NewSuccess(WorkRecommendationsResponse{UserID: 1, Works: []ScoredWork{{WorkID: 12, Score: 2.5}}}, 1500*time.Microsecond)
	if resp.Status != StatusSuccess || resp.Error != nil {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Metadata.QueryTimeMS != 1 {
		t.Errorf("QueryTimeMS = %d, want 1", resp.Metadata.QueryTimeMS)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded["error"]; ok {
		t.Error("success envelope serialized an error field")
	}
	data := decoded["data"].(map[string]interface{})
	works := data["works"].([]interface{})
	if works[0].(map[string]interface{})["work_id"].(float64) != 12 {
		t.Errorf("works = %v", works)
	}
}

func TestNewError(t *testing.T) {
	resp := NewError(ErrCodeNotFound, "job not found", map[string]interface{}{"id": "x"})
	if resp.Status != StatusError {
		t.Errorf("Status = %q", resp.Status)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound || resp.Error.Details["id"] != "x" {
		t.Errorf("Error = %+v", resp.Error)
	}
	if resp.Metadata.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}
