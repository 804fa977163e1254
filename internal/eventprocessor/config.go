// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/tomtom215/folio/internal/config"
)

// Config holds bus settings.
type Config struct {
	URL             string
	TriggerSubject  string
	FinishedSubject string
	QueueGroup      string

	// TriggerRate is the sustained number of accepted triggers per minute.
	TriggerRate  float64
	TriggerBurst int

	MaxReconnects int
	ReconnectWait time.Duration

	// CloseTimeout bounds how long the router waits for in-flight handlers.
	CloseTimeout time.Duration

	CircuitBreaker CircuitBreakerConfig
}

// CircuitBreakerConfig configures the publish circuit breaker.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultConfig returns defaults for a local NATS server.
func DefaultConfig() Config {
	return Config{
		URL:             "nats://127.0.0.1:4222",
		TriggerSubject:  "folio.recommend.run",
		FinishedSubject: "folio.recommend.job.finished",
		QueueGroup:      "folio-recommend",
		TriggerRate:     6,
		TriggerBurst:    1,
		MaxReconnects:   -1,
		ReconnectWait:   2 * time.Second,
		CloseTimeout:    10 * time.Second,
		CircuitBreaker: CircuitBreakerConfig{
			Name:             "nats-publisher",
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}
}

// FromConfig overlays the service NATS settings on DefaultConfig.
func FromConfig(c *config.NATSConfig) Config {
	cfg := DefaultConfig()
	if c.URL != "" {
		cfg.URL = c.URL
	}
	if c.TriggerSubject != "" {
		cfg.TriggerSubject = c.TriggerSubject
	}
	if c.FinishedSubject != "" {
		cfg.FinishedSubject = c.FinishedSubject
	}
	if c.QueueGroup != "" {
		cfg.QueueGroup = c.QueueGroup
	}
	if c.TriggerRate > 0 {
		cfg.TriggerRate = c.TriggerRate
	}
	if c.TriggerBurst > 0 {
		cfg.TriggerBurst = c.TriggerBurst
	}
	cfg.MaxReconnects = c.MaxReconnects
	if c.ReconnectWait > 0 {
		cfg.ReconnectWait = c.ReconnectWait
	}
	return cfg
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.TriggerSubject == "" || c.FinishedSubject == "" {
		return fmt.Errorf("trigger and finished subjects are required")
	}
	if c.TriggerSubject == c.FinishedSubject {
		return fmt.Errorf("trigger subject %q must differ from finished subject", c.TriggerSubject)
	}
	if c.TriggerRate <= 0 {
		return fmt.Errorf("trigger rate must be positive, got %v", c.TriggerRate)
	}
	if c.TriggerBurst < 1 {
		return fmt.Errorf("trigger burst must be at least 1, got %d", c.TriggerBurst)
	}
	if c.CircuitBreaker.FailureThreshold == 0 {
		return fmt.Errorf("circuit breaker failure threshold must be positive")
	}
	return nil
}
