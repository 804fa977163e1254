// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRequireRole(t *testing.T) {
	m := newTestManager(t)
	admin, _ := m.GenerateToken("alice", "admin", time.Hour)
	reader, _ := m.GenerateToken("bob", "viewer", time.Hour)

	tests := []struct {
		name      string
		validator TokenValidator
		header    string
		want      int
	}{
		{name: "admin token", validator: m, header: "Bearer " + admin, want: http.StatusOK},
		{name: "lowercase scheme", validator: m, header: "bearer " + admin, want: http.StatusOK},
		{name: "wrong role", validator: m, header: "Bearer " + reader, want: http.StatusForbidden},
		{name: "missing header", validator: m, want: http.StatusUnauthorized},
		{name: "basic scheme", validator: m, header: "Basic YWxpY2U6cHc=", want: http.StatusUnauthorized},
		{name: "bad token", validator: m, header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "disabled", validator: nil, header: "Bearer " + admin, want: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			h := RequireRole(tt.validator, "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if c, ok := ClaimsFromContext(r.Context()); ok {
					gotUser = c.Username
				}
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/run", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusOK && gotUser != "alice" {
				t.Errorf("claims username = %q, want alice", gotUser)
			}
			if tt.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}
