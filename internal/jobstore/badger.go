// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package jobstore persists recommendation job history in BadgerDB so job
// status survives restarts of the service.
package jobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/recommend/pipeline"
)

// Key prefixes for BadgerDB storage
const (
	jobKeyPrefix   = "job:"
	indexKeyPrefix = "job_created:"
)

// Options configures a BadgerStore.
type Options struct {
	// Path is the Badger directory. Empty opens an in-memory store.
	Path string

	// Retention expires job records. Zero keeps them forever.
	Retention time.Duration
}

// BadgerStore implements pipeline.JobStore on BadgerDB.
type BadgerStore struct {
	db        *badger.DB
	retention time.Duration
	logger    zerolog.Logger
}

// Open opens or creates the store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(opts Options, logger zerolog.Logger) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.Path == "" {
		bopts = bopts.WithInMemory(true)
	}
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open job store: %w", err)
	}

	s := &BadgerStore{
		db:        db,
		retention: opts.Retention,
		logger:    logger.With().Str("component", "jobstore").Logger(),
	}
	s.logger.Info().Str("path", opts.Path).Dur("retention", opts.Retention).Msg("job store opened")
	return s, nil
}

// Close flushes and closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func jobKey(id string) []byte {
	return []byte(jobKeyPrefix + id)
}

// indexKey sorts lexically by creation time so a reverse scan yields the
// newest jobs first.
func indexKey(job *pipeline.Job) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", indexKeyPrefix, job.CreatedAt.UnixNano(), job.ID))
}

// Save inserts or replaces a job record.
func (s *BadgerStore) Save(_ context.Context, job *pipeline.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(jobKey(job.ID), data)
		index := badger.NewEntry(indexKey(job), []byte(job.ID))
		if s.retention > 0 {
			entry = entry.WithTTL(s.retention)
			index = index.WithTTL(s.retention)
		}
		if err := txn.SetEntry(entry); err != nil {
			return fmt.Errorf("set job: %w", err)
		}
		if err := txn.SetEntry(index); err != nil {
			return fmt.Errorf("set job index: %w", err)
		}
		return nil
	})
}

// Get returns the job with the given ID.
func (s *BadgerStore) Get(_ context.Context, id string) (*pipeline.Job, error) {
	var job pipeline.Job
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(jobKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return pipeline.ErrJobNotFound
		}
		if err != nil {
			return fmt.Errorf("get job: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &job)
		})
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// List returns up to limit jobs, newest first. A limit of zero or less
// returns every job.
func (s *BadgerStore) List(ctx context.Context, limit int) ([]*pipeline.Job, error) {
	jobs := []*pipeline.Job{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(indexKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration seeks to the largest key below the prefix bound.
		seek := append([]byte(indexKeyPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if limit > 0 && len(jobs) >= limit {
				return nil
			}

			var id string
			if err := it.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}

			item, err := txn.Get(jobKey(id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			var job pipeline.Job
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &job)
			}); err != nil {
				s.logger.Warn().Err(err).Str("job_id", id).Msg("skipping unreadable job record")
				continue
			}
			jobs = append(jobs, &job)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// Count returns the number of stored jobs.
func (s *BadgerStore) Count() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(jobKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// RunGC reclaims value log space until Badger reports nothing to rewrite.
func (s *BadgerStore) RunGC() {
	for {
		if err := s.db.RunValueLogGC(0.5); err != nil {
			return
		}
	}
}

// StartGCRoutine runs value log GC on interval until ctx is done.
func (s *BadgerStore) StartGCRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunGC()
			}
		}
	}()
}

var _ pipeline.JobStore = (*BadgerStore)(nil)
