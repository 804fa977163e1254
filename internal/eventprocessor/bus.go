// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package eventprocessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
)

// SubscriberFactory creates a fresh subscriber for each router run.
type SubscriberFactory func() (message.Subscriber, error)

// Bus owns the NATS components of the service.
type Bus struct {
	cfg       Config
	server    *EmbeddedServer
	publisher *Publisher
	newSub    SubscriberFactory
	wmLogger  watermill.LoggerAdapter
	logger    zerolog.Logger
}

// Open starts the embedded server when embedded is set and connects the
// job event publisher.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(cfg Config, embedded bool, logger zerolog.Logger) (*Bus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid NATS config: %w", err)
	}

	b := &Bus{
		cfg:      cfg,
		wmLogger: NewWatermillLogger(logger),
		logger:   logger.With().Str("component", "eventbus").Logger(),
	}

	if embedded {
		srv, err := NewEmbeddedServer(cfg.URL)
		if err != nil {
			return nil, err
		}
		b.server = srv
		b.cfg.URL = srv.ClientURL()
		b.logger.Info().Str("url", b.cfg.URL).Msg("embedded NATS server started")
	}

	pub, err := NewNATSPublisher(&b.cfg, b.wmLogger)
	if err != nil {
		b.shutdownServer()
		return nil, err
	}
	b.publisher = NewPublisher(pub, b.cfg.FinishedSubject, NewCircuitBreaker(b.cfg.CircuitBreaker, b.logger), b.logger)
	b.newSub = func() (message.Subscriber, error) {
		return NewNATSSubscriber(&b.cfg, b.wmLogger)
	}

	b.logger.Info().
		Str("url", b.cfg.URL).
		Str("trigger_subject", b.cfg.TriggerSubject).
		Str("finished_subject", b.cfg.FinishedSubject).
		Msg("event bus connected")
	return b, nil
}

// NewBus assembles a bus from existing components. Tests use it with the
// in-memory gochannel pub/sub.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBus(cfg Config, pub message.Publisher, newSub SubscriberFactory, logger zerolog.Logger) *Bus {
	return &Bus{
		cfg:       cfg,
		publisher: NewPublisher(pub, cfg.FinishedSubject, NewCircuitBreaker(cfg.CircuitBreaker, logger), logger),
		newSub:    newSub,
		wmLogger:  NewWatermillLogger(logger),
		logger:    logger.With().Str("component", "eventbus").Logger(),
	}
}

// Publisher returns the job event publisher. It is a pipeline.JobObserver.
func (b *Bus) Publisher() *Publisher {
	return b.publisher
}

// Config returns the effective configuration.
func (b *Bus) Config() Config {
	return b.cfg
}

// ServeTriggers consumes trigger messages until ctx is done. A new
// subscriber and router are built on every call so a supervisor can
// restart it after a failure.
func (b *Bus) ServeTriggers(ctx context.Context, starter JobStarter) error {
	sub, err := b.newSub()
	if err != nil {
		return err
	}
	handler := NewTriggerHandler(starter, b.cfg.TriggerSubject, b.cfg.TriggerRate, b.cfg.TriggerBurst, b.logger)
	router, err := NewRouter(sub, handler, &b.cfg, b.wmLogger)
	if err != nil {
		_ = sub.Close()
		return err
	}
	return router.Run(ctx)
}

// Close closes the publisher and stops the embedded server.
func (b *Bus) Close(ctx context.Context) error {
	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if b.server != nil {
		if err := b.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown NATS server: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) shutdownServer() {
	if b.server != nil {
		_ = b.server.Shutdown(context.Background())
	}
}
