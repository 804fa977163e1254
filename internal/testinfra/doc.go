// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package testinfra starts Docker containers for integration tests with
// testcontainers-go.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./...
//
// # Redis Container
//
// StartRedis skips the test when no container runtime is reachable and
// terminates the container when the test ends:
//
//	func TestLock(t *testing.T) {
//	    redis := testinfra.StartRedis(t)
//	    client, err := joblock.Connect(context.Background(), redis.Addr, "", 0)
//	    ...
//	}
package testinfra
