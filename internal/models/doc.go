// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package models defines the JSON shapes returned by the HTTP API.
//
// Every endpoint answers with an APIResponse envelope. Data carries one of
// the response types in this package, or a job handle from the pipeline
// package.
package models
