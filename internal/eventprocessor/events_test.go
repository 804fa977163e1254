// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package eventprocessor

import (
	"testing"

	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

func TestDecodeTriggerRequest(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    TriggerRequest
		wantErr bool
	}{
		{name: "empty", payload: ""},
		{name: "whitespace", payload: "  \n"},
		{name: "attributed", payload: `{"requested_by":"catalog-import","reason":"bulk load"}`, want: TriggerRequest{RequestedBy: "catalog-import", Reason: "bulk load"}},
		{name: "unknown fields ignored", payload: `{"priority":1}`},
		{name: "malformed", payload: `{"requested_by":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTriggerRequest([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeTriggerRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("DecodeTriggerRequest() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestJobFinishedEvent_Validate(t *testing.T) {
	finished := &pipeline.Job{ID: "j1", Status: pipeline.StatusSucceeded}
	if err := NewJobFinishedEvent(finished).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	running := &pipeline.Job{ID: "j2", Status: pipeline.StatusRunning}
	if err := NewJobFinishedEvent(running).Validate(); err == nil {
		t.Error("Validate() of running job error = nil")
	}

	event := NewJobFinishedEvent(finished)
	finished.Status = pipeline.StatusFailed
	if event.Job.Status != pipeline.StatusSucceeded {
		t.Error("event shares the job record with the caller")
	}
}
