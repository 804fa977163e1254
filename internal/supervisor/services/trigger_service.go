// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package services

import (
	"context"

	"github.com/tomtom215/folio/internal/eventprocessor"
)

// TriggerConsumer consumes run triggers until ctx ends.
type TriggerConsumer interface {
	ServeTriggers(ctx context.Context, starter eventprocessor.JobStarter) error
}

// TriggerService runs the bus trigger consumer. Every Serve builds a fresh
// subscription, so suture restarts recover from broker disconnects.
type TriggerService struct {
	consumer TriggerConsumer
	starter  eventprocessor.JobStarter
}

// NewTriggerService wraps consumer.
func NewTriggerService(consumer TriggerConsumer, starter eventprocessor.JobStarter) *TriggerService {
	return &TriggerService{consumer: consumer, starter: starter}
}

// Serve implements suture.Service.
func (s *TriggerService) Serve(ctx context.Context) error {
	return s.consumer.ServeTriggers(ctx, s.starter)
}

func (s *TriggerService) String() string {
	return "nats-trigger-consumer"
}
