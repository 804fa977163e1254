// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import "errors"

// ErrInsufficientData is returned when the ratings or the work-genre
// associations are empty. A run that hits it performs no writes.
var ErrInsufficientData = errors.New("insufficient data for recommendations")
