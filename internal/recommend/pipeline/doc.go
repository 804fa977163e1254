// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package pipeline runs the recommendation batch job.
//
// Engine loads the input relations, fits the content and collaborative
// models, ranks works, users and interests, and hands the result to a
// ResultWriter that replaces all output relations at once. Runner wraps an
// Engine with a single-flight guard, job handles and observers so the same
// run can be started from the CLI, the HTTP API, a schedule or the message bus.
package pipeline
