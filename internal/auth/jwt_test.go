// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func TestNewJWTManager_EmptySecret(t *testing.T) {
	if _, err := NewJWTManager(""); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("NewJWTManager(\"\") error = %v, want ErrEmptySecret", err)
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := newTestManager(t)
	token, err := m.GenerateToken("alice", "admin", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Username != "alice" || claims.Role != "admin" || claims.Subject != "alice" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestJWTManager_Rejects(t *testing.T) {
	m := newTestManager(t)
	other, _ := NewJWTManager("fedcba9876543210fedcba9876543210")

	expired, _ := m.GenerateToken("alice", "admin", -time.Hour)
	foreign, _ := other.GenerateToken("alice", "admin", time.Hour)

	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Role: "admin"}).SignedString([]byte(testSecret))

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: "admin"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"expired":      expired,
		"wrong secret": foreign,
		"wrong alg":    hs512,
		"no expiry":    noExpiry,
		"alg none":     none,
		"garbage":      "not.a.token",
		"empty":        "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.ValidateToken(token); err == nil {
				t.Error("ValidateToken() error = nil, want error")
			}
		})
	}
}
