// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/folio/internal/recommend"
)

// isolate points config discovery at an empty directory so a developer's
// config.yaml never leaks into tests.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}

	got := cfg.RecommendEngineConfig()
	want := recommend.DefaultConfig()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RecommendEngineConfig() = %+v, want %+v", got, want)
	}
	if cfg.Server.Port != 3860 {
		t.Errorf("Server.Port = %d, want 3860", cfg.Server.Port)
	}
	if cfg.Recommend.RunInterval != 0 {
		t.Error("scheduler enabled by default")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"DUCKDB_PATH":              "database.path",
		"RECOMMEND_TOP_WORKS":      "recommend.top_works",
		"RECOMMEND_KNN_K":          "recommend.knn.k",
		"nats_enabled":             "nats.enabled",
		"HOME":                     "",
		"RECOMMEND_SOMETHING_ELSE": "",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := envTransformFunc(in); got != want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestLoad_Env(t *testing.T) {
	isolate(t)
	t.Setenv("DUCKDB_PATH", "/tmp/test.duckdb")
	t.Setenv("RECOMMEND_TOP_WORKS", "15")
	t.Setenv("RECOMMEND_SELF_EXCLUSION", "identity")
	t.Setenv("RECOMMEND_RUN_INTERVAL", "6h")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/test.duckdb" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Recommend.TopWorks != 15 {
		t.Errorf("TopWorks = %d, want 15", cfg.Recommend.TopWorks)
	}
	if cfg.RecommendEngineConfig().SelfExclusion != recommend.SelfExclusionIdentity {
		t.Errorf("SelfExclusion = %q", cfg.Recommend.SelfExclusion)
	}
	if cfg.Recommend.RunInterval != 6*time.Hour {
		t.Errorf("RunInterval = %v, want 6h", cfg.Recommend.RunInterval)
	}
	wantOrigins := []string{"http://a.example", "http://b.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, wantOrigins) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, wantOrigins)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "folio.yaml")
	yaml := `
database:
  path: /data/from-file.duckdb
recommend:
  top_users: 5
  knn:
    k: 20
jobs:
  store: badger
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("RECOMMEND_TOP_USERS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/data/from-file.duckdb" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Recommend.TopUsers != 7 {
		t.Errorf("TopUsers = %d, want env value 7", cfg.Recommend.TopUsers)
	}
	if cfg.Recommend.KNN.K != 20 || cfg.Recommend.KNN.MinK != 1 {
		t.Errorf("KNN = %+v, want file k with default min_k", cfg.Recommend.KNN)
	}
	if cfg.Jobs.Store != "badger" {
		t.Errorf("Jobs.Store = %q", cfg.Jobs.Store)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown self exclusion",
			env:     map[string]string{"RECOMMEND_SELF_EXCLUSION": "random"},
			wantErr: "recommend.self_exclusion",
		},
		{
			name:    "zero top works",
			env:     map[string]string{"RECOMMEND_TOP_WORKS": "0"},
			wantErr: "recommend.top_works",
		},
		{
			name:    "min_k above k",
			env:     map[string]string{"RECOMMEND_KNN_K": "2", "RECOMMEND_KNN_MIN_K": "3"},
			wantErr: "min_k",
		},
		{
			name:    "short jwt secret",
			env:     map[string]string{"JWT_SECRET": "short"},
			wantErr: "security.jwt_secret",
		},
		{
			name:    "bad nats url",
			env:     map[string]string{"NATS_ENABLED": "true", "NATS_URL": "http://localhost:4222"},
			wantErr: "nats.url",
		},
		{
			name:    "wildcard cors in production",
			env:     map[string]string{"ENVIRONMENT": "production", "CORS_ORIGINS": "*"},
			wantErr: "cors_origins",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)
	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q in empty dir", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() = %q, want config.yaml", got)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("missing CONFIG_PATH should fall back, got %q", got)
	}
}
