// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/folio/config.yaml",
	"/etc/folio/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3860,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/folio.duckdb",
			MaxMemory: "2GB",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			HighRatingThreshold: 4.0,
			SimilarWorksPerSeed: 20,
			TopWorks:            20,
			TopUsers:            10,
			TopInterests:        3,
			ContentWeight:       0.5,
			CollaborativeWeight: 1.0,
			SelfExclusion:       "position",
			KNN: KNNConfig{
				K:          40,
				MinK:       1,
				MinSupport: 1,
				RatingMin:  0.5,
				RatingMax:  5.0,
			},
			RunTimeout: 30 * time.Minute,
		},
		Jobs: JobsConfig{
			Store:        "memory",
			HistoryLimit: 50,
			Retention:    30 * 24 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			LockKey: "folio:recommend:lock",
			LockTTL: 60 * time.Second,
		},
		NATS: NATSConfig{
			URL:             "nats://127.0.0.1:4222",
			TriggerSubject:  "folio.recommend.run",
			FinishedSubject: "folio.recommend.job.finished",
			QueueGroup:      "folio-recommend",
			TriggerRate:     6,
			TriggerBurst:    1,
			MaxReconnects:   -1,
			ReconnectWait:   2 * time.Second,
		},
		Security: SecurityConfig{
			AdminRole:        "admin",
			RateLimitReqs:    100,
			RateLimitWindow:  time.Minute,
			TriggerLimitReqs: 5,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in increasing priority, and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config keys.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"duckdb_path":          "database.path",
	"duckdb_max_memory":    "database.max_memory",
	"duckdb_threads":       "database.threads",
	"duckdb_create_schema": "database.create_schema",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"recommend_high_rating_threshold":  "recommend.high_rating_threshold",
	"recommend_similar_works_per_seed": "recommend.similar_works_per_seed",
	"recommend_top_works":              "recommend.top_works",
	"recommend_top_users":              "recommend.top_users",
	"recommend_top_interests":          "recommend.top_interests",
	"recommend_content_weight":         "recommend.content_weight",
	"recommend_collaborative_weight":   "recommend.collaborative_weight",
	"recommend_self_exclusion":         "recommend.self_exclusion",
	"recommend_knn_k":                  "recommend.knn.k",
	"recommend_knn_min_k":              "recommend.knn.min_k",
	"recommend_knn_min_support":        "recommend.knn.min_support",
	"recommend_workers":                "recommend.workers",
	"recommend_run_timeout":            "recommend.run_timeout",
	"recommend_run_interval":           "recommend.run_interval",
	"recommend_run_on_startup":         "recommend.run_on_startup",

	"jobs_store":         "jobs.store",
	"jobs_path":          "jobs.path",
	"jobs_history_limit": "jobs.history_limit",
	"jobs_retention":     "jobs.retention",

	"redis_enabled":  "redis.enabled",
	"redis_addr":     "redis.addr",
	"redis_password": "redis.password",
	"redis_db":       "redis.db",
	"redis_lock_key": "redis.lock_key",
	"redis_lock_ttl": "redis.lock_ttl",

	"nats_enabled":          "nats.enabled",
	"nats_url":              "nats.url",
	"nats_embedded":         "nats.embedded_server",
	"nats_trigger_subject":  "nats.trigger_subject",
	"nats_finished_subject": "nats.finished_subject",
	"nats_queue_group":      "nats.queue_group",
	"nats_trigger_rate":     "nats.trigger_rate",
	"nats_trigger_burst":    "nats.trigger_burst",

	"jwt_secret":         "security.jwt_secret",
	"admin_role":         "security.admin_role",
	"cors_origins":       "security.cors_origins",
	"rate_limit_reqs":    "security.rate_limit_reqs",
	"rate_limit_window":  "security.rate_limit_window",
	"trigger_limit_reqs": "security.trigger_limit_reqs",
}

// envTransformFunc maps DUCKDB_PATH to database.path and so on. Unmapped
// keys return "" so unrelated environment variables never leak into config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
