// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package eventprocessor

import (
	"bytes"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

// Event types carried in the event_type metadata key.
const (
	EventTypeJobFinished = "recommend.job.finished"
	EventTypeRunTrigger  = "recommend.run"

	MetadataEventType = "event_type"
	MetadataJobStatus = "job_status"
)

// JobFinishedEvent is published after every run.
type JobFinishedEvent struct {
	EventID    string        `json:"event_id"`
	Type       string        `json:"type"`
	OccurredAt time.Time     `json:"occurred_at"`
	Job        *pipeline.Job `json:"job"`
}

// NewJobFinishedEvent wraps a snapshot of job.
func NewJobFinishedEvent(job *pipeline.Job) *JobFinishedEvent {
	return &JobFinishedEvent{
		EventID:    uuid.NewString(),
		Type:       EventTypeJobFinished,
		OccurredAt: time.Now().UTC(),
		Job:        job.Clone(),
	}
}

// Validate checks that the event can be published.
func (e *JobFinishedEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if e.Job == nil || e.Job.ID == "" {
		return fmt.Errorf("job is required")
	}
	if !e.Job.Status.Done() {
		return fmt.Errorf("job %s is not finished (status %s)", e.Job.ID, e.Job.Status)
	}
	return nil
}

// TriggerRequest is the optional body of a trigger message.
type TriggerRequest struct {
	RequestedBy string `json:"requested_by,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// DecodeTriggerRequest parses a trigger payload. An empty payload is a
// valid trigger with no attribution.
func DecodeTriggerRequest(payload []byte) (TriggerRequest, error) {
	var req TriggerRequest
	if len(bytes.TrimSpace(payload)) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		return req, fmt.Errorf("decode trigger: %w", err)
	}
	return req, nil
}
