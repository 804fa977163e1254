// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package pipeline

import (
	"context"
	"errors"
	"io"
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/recommend"
)

type stubProvider struct {
	ratings    []recommend.Rating
	workGenres []recommend.WorkGenre
	genres     []recommend.Genre
	err        error
}

func (p *stubProvider) LoadRatings(context.Context) ([]recommend.Rating, error) {
	return p.ratings, p.err
}

func (p *stubProvider) LoadWorkGenres(context.Context) ([]recommend.WorkGenre, error) {
	return p.workGenres, p.err
}

func (p *stubProvider) LoadGenres(context.Context) ([]recommend.Genre, error) {
	return p.genres, p.err
}

type stubWriter struct {
	mu     sync.Mutex
	calls  int
	result *recommend.Result
	err    error
}

func (w *stubWriter) ReplaceRecommendations(_ context.Context, r *recommend.Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.result = r
	return nil
}

func (w *stubWriter) last() (*recommend.Result, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result, w.calls
}

func scenarioProvider() *stubProvider {
	return &stubProvider{
		ratings: []recommend.Rating{
			{UserID: 1, WorkID: 10, Value: 5.0},
			{UserID: 1, WorkID: 11, Value: 3.0},
			{UserID: 2, WorkID: 10, Value: 4.5},
			{UserID: 2, WorkID: 12, Value: 2.0},
		},
		workGenres: []recommend.WorkGenre{
			{WorkID: 10, Label: "sci-fi"},
			{WorkID: 11, Label: "drama"},
			{WorkID: 12, Label: "sci-fi"},
		},
		genres: []recommend.Genre{{ID: 1, Label: "sci-fi"}, {ID: 2, Label: "drama"}},
	}
}

func newTestEngine(t *testing.T, p recommend.DataProvider, w recommend.ResultWriter) *Engine {
	t.Helper()
	e, err := NewEngine(nil, p, w, zerolog.New(io.Discard), 2)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngine_Validation(t *testing.T) {
	logger := zerolog.New(io.Discard)
	bad := recommend.DefaultConfig()
	bad.TopWorks = -1

	tests := []struct {
		name     string
		cfg      *recommend.Config
		provider recommend.DataProvider
		writer   recommend.ResultWriter
	}{
		{name: "invalid config", cfg: bad, provider: &stubProvider{}, writer: &stubWriter{}},
		{name: "missing provider", writer: &stubWriter{}},
		{name: "missing writer", provider: &stubProvider{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEngine(tt.cfg, tt.provider, tt.writer, logger, 1); err == nil {
				t.Error("NewEngine() error = nil, want error")
			}
		})
	}
}

func TestEngine_RunScenario(t *testing.T) {
	writer := &stubWriter{}
	e := newTestEngine(t, scenarioProvider(), writer)

	summary, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	result, calls := writer.last()
	if calls != 1 {
		t.Fatalf("writer calls = %d, want 1", calls)
	}

	wantWorks := []recommend.WorkRecommendation{
		{UserID: 1, WorkID: 12, Score: 2.5},
		{UserID: 2, WorkID: 11, Score: 3.0},
	}
	if len(result.WorkRecommendations) != len(wantWorks) {
		t.Fatalf("WorkRecommendations = %+v, want %+v", result.WorkRecommendations, wantWorks)
	}
	for i, want := range wantWorks {
		got := result.WorkRecommendations[i]
		if got.UserID != want.UserID || got.WorkID != want.WorkID || math.Abs(got.Score-want.Score) > 1e-9 {
			t.Errorf("WorkRecommendations[%d] = %+v, want %+v", i, got, want)
		}
	}

	if len(result.UserRecommendations) != 2 {
		t.Fatalf("UserRecommendations = %+v, want 2 rows", result.UserRecommendations)
	}
	for _, r := range result.UserRecommendations {
		if r.UserID == r.TargetID {
			t.Errorf("user %d recommended to itself", r.UserID)
		}
	}

	wantInterests := []recommend.Interest{{UserID: 1, GenreID: 1}, {UserID: 2, GenreID: 1}}
	if !reflect.DeepEqual(result.Interests, wantInterests) {
		t.Errorf("Interests = %+v, want %+v", result.Interests, wantInterests)
	}

	if summary.Users != 2 || summary.Ratings != 4 || summary.WorkRecommendations != 2 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestEngine_RunIsIdempotent(t *testing.T) {
	writer := &stubWriter{}
	e := newTestEngine(t, scenarioProvider(), writer)

	if _, err := e.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	first, _ := writer.last()
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	second, _ := writer.last()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between runs:\n%+v\n%+v", first, second)
	}
}

func TestEngine_RunErrors(t *testing.T) {
	tests := []struct {
		name       string
		provider   *stubProvider
		writerErr  error
		wantErr    error
		wantWrites int
	}{
		{
			name:     "insufficient data writes nothing",
			provider: &stubProvider{},
			wantErr:  recommend.ErrInsufficientData,
		},
		{
			name:     "provider failure",
			provider: &stubProvider{err: errors.New("connection reset")},
		},
		{
			name:       "writer failure",
			provider:   scenarioProvider(),
			writerErr:  errors.New("disk full"),
			wantWrites: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &stubWriter{err: tt.writerErr}
			e := newTestEngine(t, tt.provider, writer)

			_, err := e.Run(context.Background())
			if err == nil {
				t.Fatal("Run() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}
			if _, calls := writer.last(); calls != tt.wantWrites {
				t.Errorf("writer calls = %d, want %d", calls, tt.wantWrites)
			}
		})
	}
}

func TestEngine_ComputeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(t, scenarioProvider(), &stubWriter{})
	if _, _, err := e.Compute(ctx); err == nil {
		t.Error("Compute() with cancelled context error = nil, want error")
	}
}
