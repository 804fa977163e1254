// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package logging provides the zerolog-based structured logging used across Folio.
//
// A process-wide logger is configured once with Init and handed to components,
// which derive a child logger tagged with their component name:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logger := logging.WithComponent("recommend")
//	logger.Info().Int("users", n).Msg("computed recommendations")
//
// # Request Context
//
// HTTP middleware stores a request ID and a correlation ID in the request
// context. Ctx returns a logger carrying both:
//
//	logging.Ctx(r.Context()).Warn().Msg("job already running")
//
// # slog Bridge
//
// The supervisor tree logs through log/slog because sutureslog requires it.
// NewSlogLogger returns an slog.Logger whose records are written by zerolog,
// so both end up in the same stream with the same format.
//
// Always terminate event chains with Msg or Send; an unterminated chain is
// never written.
package logging
