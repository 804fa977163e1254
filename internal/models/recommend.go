// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

// ScoredWork is one persisted work recommendation.
type ScoredWork struct {
	WorkID int64   `json:"work_id"`
	Score  float64 `json:"score"`
}

// ScoredUser is one persisted user-to-user recommendation.
type ScoredUser struct {
	UserID int64   `json:"user_id"`
	Score  float64 `json:"score"`
}

// InterestGenre is one inferred interest. Label is empty when the genre no
// longer exists.
type InterestGenre struct {
	GenreID int64  `json:"genre_id"`
	Label   string `json:"label"`
}

// WorkRecommendationsResponse lists works for one user, best first.
type WorkRecommendationsResponse struct {
	UserID int64        `json:"user_id"`
	Works  []ScoredWork `json:"works"`
}

// UserRecommendationsResponse lists similar users for one user, best first.
type UserRecommendationsResponse struct {
	UserID int64        `json:"user_id"`
	Users  []ScoredUser `json:"users"`
}

// InterestsResponse lists inferred genres for one user.
type InterestsResponse struct {
	UserID    int64           `json:"user_id"`
	Interests []InterestGenre `json:"interests"`
}

// JobsResponse lists job handles, newest first.
type JobsResponse struct {
	Jobs  interface{} `json:"jobs"`
	Count int         `json:"count"`
}
