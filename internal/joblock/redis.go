// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package joblock provides a Redis lease that keeps recommendation runs
// single-flight across service replicas and CLI invocations.
//
// A lease is a key set with NX and a TTL. The holder refreshes the TTL while
// the run is alive and deletes the key on release only if it still owns it,
// so a crashed holder frees the lock after at most one TTL.
package joblock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

// releaseScript deletes the key only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript extends the TTL only when the key still holds our token.
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// ErrLeaseLost is logged when a refresh finds another holder on the key.
var ErrLeaseLost = errors.New("run lock lease lost")

// Options configures a RedisLocker.
type Options struct {
	Key string
	TTL time.Duration
}

// RedisLocker implements pipeline.Locker with a Redis lease.
type RedisLocker struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	logger zerolog.Logger
}

// New wraps an existing client.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(client redis.UniversalClient, opts Options, logger zerolog.Logger) *RedisLocker {
	if opts.TTL <= 0 {
		opts.TTL = time.Minute
	}
	if opts.Key == "" {
		opts.Key = "folio:recommend:lock"
	}
	return &RedisLocker{
		client: client,
		key:    opts.Key,
		ttl:    opts.TTL,
		logger: logger.With().Str("component", "joblock").Str("key", opts.Key).Logger(),
	}
}

// Connect creates a client for addr and verifies it with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// Acquire takes the lease or returns pipeline.ErrLockHeld when another
// holder owns it. The returned release stops the refresher and deletes the
// key if it is still ours.
func (l *RedisLocker) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, pipeline.ErrLockHeld
	}
	l.logger.Debug().Str("token", token).Dur("ttl", l.ttl).Msg("run lock acquired")

	refreshCtx, stop := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.refresh(refreshCtx, token)
	}()

	var once sync.Once
	release := func(ctx context.Context) error {
		var err error
		once.Do(func() {
			stop()
			wg.Wait()
			if _, rerr := releaseScript.Run(ctx, l.client, []string{l.key}, token).Result(); rerr != nil {
				err = fmt.Errorf("release run lock: %w", rerr)
				return
			}
			l.logger.Debug().Str("token", token).Msg("run lock released")
		})
		return err
	}
	return release, nil
}

// refresh extends the lease every third of the TTL until ctx is done.
func (l *RedisLocker) refresh(ctx context.Context, token string) {
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := refreshScript.Run(ctx, l.client, []string{l.key}, token, l.ttl.Milliseconds()).Int()
			if err != nil {
				if ctx.Err() == nil {
					l.logger.Warn().Err(err).Msg("run lock refresh failed")
				}
				continue
			}
			if n == 0 {
				l.logger.Error().Err(ErrLeaseLost).Str("token", token).Msg("run lock taken over")
				return
			}
		}
	}
}

var _ pipeline.Locker = (*RedisLocker)(nil)
