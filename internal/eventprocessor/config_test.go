// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package eventprocessor

import (
	"testing"
	"time"

	"github.com/tomtom215/folio/internal/config"
)

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(&config.NATSConfig{
		URL:            "nats://bus:4222",
		TriggerSubject: "jobs.run",
		TriggerRate:    30,
		MaxReconnects:  5,
		ReconnectWait:  time.Second,
	})
	if cfg.URL != "nats://bus:4222" || cfg.TriggerSubject != "jobs.run" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.FinishedSubject != DefaultConfig().FinishedSubject {
		t.Errorf("FinishedSubject = %q, want default", cfg.FinishedSubject)
	}
	if cfg.TriggerRate != 30 || cfg.TriggerBurst != 1 || cfg.MaxReconnects != 5 {
		t.Errorf("rate settings = %v/%d/%d", cfg.TriggerRate, cfg.TriggerBurst, cfg.MaxReconnects)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing url", mutate: func(c *Config) { c.URL = "" }},
		{name: "missing subject", mutate: func(c *Config) { c.FinishedSubject = "" }},
		{name: "same subjects", mutate: func(c *Config) { c.FinishedSubject = c.TriggerSubject }},
		{name: "zero rate", mutate: func(c *Config) { c.TriggerRate = 0 }},
		{name: "zero burst", mutate: func(c *Config) { c.TriggerBurst = 0 }},
		{name: "zero breaker threshold", mutate: func(c *Config) { c.CircuitBreaker.FailureThreshold = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}
