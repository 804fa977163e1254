// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// natsOptions returns connection options with reconnect logging.
func natsOptions(cfg *Config, logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
}

// NewNATSPublisher creates a Watermill publisher on core NATS.
func NewNATSPublisher(cfg *Config, logger watermill.LoggerAdapter) (message.Publisher, error) {
	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOptions(cfg, logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return pub, nil
}

// Publisher publishes job events with circuit breaker protection.
type Publisher struct {
	publisher message.Publisher
	breaker   *gobreaker.CircuitBreaker[interface{}]
	topic     string
	logger    zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps pub. A nil breaker publishes without protection.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPublisher(pub message.Publisher, topic string, breaker *gobreaker.CircuitBreaker[interface{}], logger zerolog.Logger) *Publisher {
	return &Publisher{
		publisher: pub,
		breaker:   breaker,
		topic:     topic,
		logger:    logger.With().Str("component", "event-publisher").Str("topic", topic).Logger(),
	}
}

// Publish sends msg to the configured topic.
func (p *Publisher) Publish(msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	var err error
	if p.breaker != nil {
		_, err = p.breaker.Execute(func() (interface{}, error) {
			return nil, p.publisher.Publish(p.topic, msg)
		})
	} else {
		err = p.publisher.Publish(p.topic, msg)
	}
	metrics.RecordEventPublished(p.topic, err)
	return err
}

// PublishJobFinished serializes and publishes a finished job.
func (p *Publisher) PublishJobFinished(ctx context.Context, job *pipeline.Job) error {
	event := NewJobFinishedEvent(job)
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(event.EventID, data)
	msg.SetContext(ctx)
	msg.Metadata.Set(MetadataEventType, event.Type)
	msg.Metadata.Set(MetadataJobStatus, string(job.Status))
	msg.Metadata.Set(natsgo.MsgIdHdr, event.EventID)
	return p.Publish(msg)
}

// JobFinished publishes the job and logs failures. A bus outage never
// fails a run.
func (p *Publisher) JobFinished(ctx context.Context, job *pipeline.Job) {
	if err := p.PublishJobFinished(ctx, job); err != nil {
		p.logger.Warn().Err(err).Str("job_id", job.ID).Msg("failed to publish job finished event")
		return
	}
	p.logger.Debug().Str("job_id", job.ID).Str("status", string(job.Status)).Msg("job finished event published")
}

// Close closes the underlying publisher.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

var _ pipeline.JobObserver = (*Publisher)(nil)
