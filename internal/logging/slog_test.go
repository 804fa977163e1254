// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogLogger(t *testing.T) {
	tests := []struct {
		name string
		log  func(*slog.Logger)
		want []string
	}{
		{
			name: "levels map to zerolog",
			log:  func(l *slog.Logger) { l.Warn("service restarting") },
			want: []string{`"level":"warn"`, `"message":"service restarting"`},
		},
		{
			name: "typed attributes",
			log: func(l *slog.Logger) {
				l.Info("tick", "service", "scheduler", "attempt", 3, "backoff", time.Second, "ok", true)
			},
			want: []string{`"service":"scheduler"`, `"attempt":3`, `"ok":true`},
		},
		{
			name: "groups prefix keys",
			log:  func(l *slog.Logger) { l.WithGroup("supervisor").Error("failed", "name", "http") },
			want: []string{`"supervisor.name":"http"`, `"level":"error"`},
		},
		{
			name: "preset attributes",
			log:  func(l *slog.Logger) { l.With("tree", "root").Info("started") },
			want: []string{`"tree":"root"`},
		},
		{
			name: "nested group attribute",
			log:  func(l *slog.Logger) { l.Info("x", slog.Group("job", slog.String("id", "j1"))) },
			want: []string{`"job.id":"j1"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewSlogLogger(NewTestLogger(&buf)))
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	h := NewSlogHandler(NewTestLogger(&buf).Level(zerolog.WarnLevel))

	if h.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("Enabled(info) = true for a warn logger")
	}
	if !h.Enabled(t.Context(), slog.LevelError) {
		t.Error("Enabled(error) = false for a warn logger")
	}
}
