// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package api serves the HTTP surface of the recommendation service.

Routes:

	GET  /health                                     liveness and DuckDB ping
	GET  /metrics                                    Prometheus exposition
	GET  /api/v1/recommend/works?user_id=&limit=     persisted work recommendations
	GET  /api/v1/recommend/users?user_id=&limit=     persisted user recommendations
	GET  /api/v1/recommend/interests?user_id=        inferred genres
	POST /api/v1/admin/recommendations/run           start a job (202, 409, 429)
	GET  /api/v1/admin/recommendations/jobs?limit=   job history
	GET  /api/v1/admin/recommendations/jobs/{id}     one job

Admin routes require a bearer token with the configured role. Every
response uses the models.APIResponse envelope.
*/
package api
