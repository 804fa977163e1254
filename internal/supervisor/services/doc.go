// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package services adapts server components to suture.Service.
//
// Each wrapper translates its component's lifecycle into
// Serve(ctx context.Context) error and implements fmt.Stringer so suture
// can name it in logs.
package services
