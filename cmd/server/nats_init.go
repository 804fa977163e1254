// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package main

import (
	"fmt"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/eventprocessor"
	"github.com/tomtom215/folio/internal/logging"
)

// initNATS opens the event bus when enabled. It returns nil otherwise.
func initNATS(cfg *config.Config) (*eventprocessor.Bus, error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("NATS disabled: bus triggers and job events are off")
		return nil, nil
	}

	bus, err := eventprocessor.Open(
		eventprocessor.FromConfig(&cfg.NATS),
		cfg.NATS.EmbeddedServer,
		logging.WithComponent("eventprocessor"),
	)
	if err != nil {
		return nil, fmt.Errorf("open event bus: %w", err)
	}
	return bus, nil
}
