// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/models"
)

type contextKey string

// ClaimsContextKey holds the validated *Claims in the request context.
const ClaimsContextKey contextKey = "claims"

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// RequireRole admits requests carrying a valid bearer token whose role
// claim equals role. A nil validator rejects every request with 503 so the
// admin surface stays closed when no secret is configured.
func RequireRole(v TokenValidator, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v == nil {
				writeError(w, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "admin endpoints are disabled")
				return
			}

			token := extractBearerToken(r)
			if token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="folio"`)
				writeError(w, http.StatusUnauthorized, models.ErrCodeUnauthorized, "missing bearer token")
				return
			}

			claims, err := v.ValidateToken(token)
			if err != nil {
				logging.Ctx(r.Context()).Debug().Err(err).Msg("rejected admin token")
				w.Header().Set("WWW-Authenticate", `Bearer realm="folio", error="invalid_token"`)
				writeError(w, http.StatusUnauthorized, models.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			if claims.Role != role {
				logging.Ctx(r.Context()).Warn().
					Str("username", claims.Username).
					Str("role", claims.Role).
					Msg("admin request with insufficient role")
				writeError(w, http.StatusForbidden, models.ErrCodeForbidden, "insufficient role")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims set by RequireRole.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.NewError(code, message, nil))
}
