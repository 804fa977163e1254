// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package eventprocessor connects the recommendation runner to NATS.
//
// Two flows use the bus:
//
//   - Trigger: any message on the trigger subject starts a run. Triggers are
//     consumed through a Watermill router in a queue group, so exactly one
//     replica handles each message, and are rate limited before reaching the
//     runner. Triggers that arrive while a run is in progress are dropped.
//   - Job finished: after every run the job record is published as JSON on
//     the finished subject. Publishing goes through a circuit breaker so an
//     unreachable bus never slows down the runner.
//
// For single-node deployments an embedded NATS server can be started in
// process. Core NATS is used throughout; job history lives in the job store,
// not in a stream.
package eventprocessor
