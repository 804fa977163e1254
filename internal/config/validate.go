// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/folio/internal/validation"
)

// Validate checks struct tag rules first, then cross-field rules the tags
// cannot express.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.RecommendEngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if err := c.validateJobs(); err != nil {
		return err
	}
	if err := c.validateNATS(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateJobs() error {
	if c.Jobs.Store == "badger" && c.Jobs.Path == "" && c.IsProduction() {
		return fmt.Errorf("jobs.path is required for the badger store in production")
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("nats.url: %w", err)
	}
	if c.NATS.TriggerSubject == "" && c.NATS.FinishedSubject == "" {
		return fmt.Errorf("nats is enabled but neither trigger_subject nor finished_subject is set")
	}
	return nil
}

func validateNATSURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	switch u.Scheme {
	case "nats", "tls", "ws", "wss":
	default:
		return fmt.Errorf("scheme must be nats, tls, ws or wss, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// placeholderSecrets are example values that must never reach production.
var placeholderSecrets = []string{"changeme", "replace_with", "your_secret", "example"}

func (c *Config) validateSecurity() error {
	if !c.IsProduction() {
		return nil
	}
	if c.Security.JWTSecret == "" {
		return nil
	}
	lower := strings.ToLower(c.Security.JWTSecret)
	for _, p := range placeholderSecrets {
		if strings.Contains(lower, p) {
			return fmt.Errorf("security.jwt_secret looks like a placeholder")
		}
	}
	for _, o := range c.Security.CORSOrigins {
		if o == "*" {
			return fmt.Errorf("security.cors_origins must not contain * in production")
		}
	}
	return nil
}
