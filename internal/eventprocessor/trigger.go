// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package eventprocessor

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

// Trigger outcomes recorded in metrics.
const (
	OutcomeStarted     = "started"
	OutcomeRateLimited = "rate_limited"
	OutcomeBusy        = "busy"
	OutcomeInvalid     = "invalid"
	OutcomeFailed      = "failed"
)

// JobStarter starts a background run.
type JobStarter interface {
	Start(trigger pipeline.Trigger) (*pipeline.Job, error)
}

// TriggerHandler starts runs for trigger messages.
type TriggerHandler struct {
	starter JobStarter
	limiter *rate.Limiter
	topic   string
	logger  zerolog.Logger
}

// NewTriggerHandler accepts perMinute triggers per minute with the given burst.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTriggerHandler(starter JobStarter, topic string, perMinute float64, burst int, logger zerolog.Logger) *TriggerHandler {
	return &TriggerHandler{
		starter: starter,
		limiter: rate.NewLimiter(rate.Limit(perMinute/60), burst),
		topic:   topic,
		logger:  logger.With().Str("component", "trigger-handler").Logger(),
	}
}

// Handle implements message.NoPublishHandlerFunc. Triggers are
// fire-and-forget: malformed, rate limited and busy triggers are acked and
// dropped. Only unexpected runner errors are returned for redelivery.
func (h *TriggerHandler) Handle(msg *message.Message) error {
	req, err := DecodeTriggerRequest(msg.Payload)
	if err != nil {
		h.record(OutcomeInvalid)
		h.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping malformed trigger")
		return nil
	}
	log := h.logger.With().
		Str("message_uuid", msg.UUID).
		Str("requested_by", req.RequestedBy).
		Str("reason", req.Reason).
		Logger()

	if !h.limiter.Allow() {
		h.record(OutcomeRateLimited)
		log.Warn().Msg("trigger rate limited")
		return nil
	}

	job, err := h.starter.Start(pipeline.TriggerEvent)
	switch {
	case errors.Is(err, pipeline.ErrJobRunning):
		h.record(OutcomeBusy)
		log.Info().Msg("run already in progress, trigger dropped")
		return nil
	case err != nil:
		h.record(OutcomeFailed)
		return err
	}

	h.record(OutcomeStarted)
	log.Info().Str("job_id", job.ID).Msg("run started from bus trigger")
	return nil
}

func (h *TriggerHandler) record(outcome string) {
	metrics.RecordEventConsumed(h.topic, outcome)
}

// NewRouter builds a Watermill router that feeds triggers from sub into
// handler with panic recovery.
func NewRouter(sub message.Subscriber, handler *TriggerHandler, cfg *Config, logger watermill.LoggerAdapter) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	router.AddConsumerHandler("recommend-trigger", cfg.TriggerSubject, sub, handler.Handle)
	return router, nil
}
