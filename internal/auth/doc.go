// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package auth guards the admin endpoints with HS256 bearer tokens.

Tokens are issued by the main reviews backend with the shared secret from
security.jwt_secret and carry a role claim. The service only validates
them:

	m, err := auth.NewJWTManager(cfg.Security.JWTSecret)
	r.With(auth.RequireRole(m, cfg.Security.AdminRole)).Post("/run", h.Run)

Public read endpoints are not authenticated.
*/
package auth
