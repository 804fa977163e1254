// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"time"

	"github.com/tomtom215/folio/internal/recommend"
)

// Config holds every setting of the service and the CLI.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Jobs      JobsConfig      `koanf:"jobs"`
	Redis     RedisConfig     `koanf:"redis"` // Optional: cross-process run lock
	NATS      NATSConfig      `koanf:"nats"`  // Optional: bus triggers and job events
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`

	// Timeout bounds reading and writing one request.
	// Default: 30s.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// ShutdownTimeout bounds graceful shutdown of the HTTP server and runner.
	// Default: 30s.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// Environment is development, staging or production.
	Environment string `koanf:"environment" validate:"oneof=development staging production"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory"`

	// Threads is the number of DuckDB threads. Zero uses one per CPU.
	Threads int `koanf:"threads" validate:"min=0"`

	// CreateSchema creates missing input and output relations at startup.
	// Meant for local runs; production schemas are owned by the main backend.
	// Default: false.
	CreateSchema bool `koanf:"create_schema"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// RecommendConfig holds batch job tuning and scheduling.
type RecommendConfig struct {
	// HighRatingThreshold is the minimum rating for a seed work and for
	// interest inference.
	// Default: 4.0.
	HighRatingThreshold float64 `koanf:"high_rating_threshold" validate:"gte=0,lte=5"`

	// SimilarWorksPerSeed is the number of content neighbours taken per seed.
	// Default: 20.
	SimilarWorksPerSeed int `koanf:"similar_works_per_seed" validate:"min=0"`

	// TopWorks, TopUsers and TopInterests cap the rows written per user.
	// Defaults: 20, 10, 3.
	TopWorks     int `koanf:"top_works" validate:"min=1"`
	TopUsers     int `koanf:"top_users" validate:"min=1"`
	TopInterests int `koanf:"top_interests" validate:"min=1"`

	// ContentWeight and CollaborativeWeight blend the hybrid score.
	// Defaults: 0.5, 1.0.
	ContentWeight       float64 `koanf:"content_weight" validate:"gte=0"`
	CollaborativeWeight float64 `koanf:"collaborative_weight" validate:"gte=0"`

	// SelfExclusion is position or identity.
	// Default: position.
	SelfExclusion string `koanf:"self_exclusion" validate:"oneof=position identity"`

	KNN KNNConfig `koanf:"knn"`

	// Workers bounds goroutines in the pairwise similarity stages. Zero uses one per CPU.
	Workers int `koanf:"workers" validate:"min=0"`

	// RunTimeout bounds one background run.
	// Default: 30m.
	RunTimeout time.Duration `koanf:"run_timeout" validate:"gt=0"`

	// RunInterval schedules periodic runs. Zero disables the scheduler.
	// Default: 0.
	RunInterval time.Duration `koanf:"run_interval" validate:"min=0"`

	// RunOnStartup starts one run when the service boots.
	// Default: false.
	RunOnStartup bool `koanf:"run_on_startup"`
}

// KNNConfig holds collaborative filtering neighbourhood settings.
type KNNConfig struct {
	K          int     `koanf:"k" validate:"min=1"`
	MinK       int     `koanf:"min_k" validate:"min=1"`
	MinSupport int     `koanf:"min_support" validate:"min=1"`
	RatingMin  float64 `koanf:"rating_min"`
	RatingMax  float64 `koanf:"rating_max" validate:"gtfield=RatingMin"`
}

// JobsConfig holds job history settings.
type JobsConfig struct {
	// Store is memory or badger.
	// Default: memory.
	Store string `koanf:"store" validate:"oneof=memory badger"`

	// Path is the Badger directory. Empty runs Badger in memory.
	Path string `koanf:"path"`

	// HistoryLimit is the number of jobs retained by the memory store and
	// returned by default from the jobs endpoint.
	// Default: 50.
	HistoryLimit int `koanf:"history_limit" validate:"min=1"`

	// Retention expires Badger job records. Zero keeps them forever.
	// Default: 720h.
	Retention time.Duration `koanf:"retention" validate:"min=0"`
}

// RedisConfig holds the distributed run lock settings.
type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Addr     string `koanf:"addr" validate:"required_if=Enabled true"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"min=0"`

	// LockKey is the Redis key guarding runs.
	// Default: folio:recommend:lock.
	LockKey string `koanf:"lock_key"`

	// LockTTL is refreshed while a run is alive so a crashed holder
	// releases the lock after at most one TTL.
	// Default: 60s.
	LockTTL time.Duration `koanf:"lock_ttl" validate:"gt=0"`
}

// NATSConfig holds message bus settings.
type NATSConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`

	// EmbeddedServer starts an in-process NATS server listening on URL's port.
	// Default: false.
	EmbeddedServer bool `koanf:"embedded_server"`

	// TriggerSubject starts a run for every message received.
	// Default: folio.recommend.run.
	TriggerSubject string `koanf:"trigger_subject"`

	// FinishedSubject receives the job JSON after each run.
	// Default: folio.recommend.job.finished.
	FinishedSubject string `koanf:"finished_subject"`

	// QueueGroup load-balances triggers across replicas.
	// Default: folio-recommend.
	QueueGroup string `koanf:"queue_group"`

	// TriggerRate is the sustained bus trigger rate per minute.
	// Default: 6.
	TriggerRate float64 `koanf:"trigger_rate" validate:"gt=0"`

	// TriggerBurst is the number of triggers accepted at once.
	// Default: 1.
	TriggerBurst int `koanf:"trigger_burst" validate:"min=1"`

	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
}

// SecurityConfig holds API access settings.
type SecurityConfig struct {
	// JWTSecret signs admin bearer tokens (HS256). Empty disables the
	// admin endpoints.
	JWTSecret string `koanf:"jwt_secret" validate:"omitempty,min=32"`

	// AdminRole is the role claim required on admin endpoints.
	// Default: admin.
	AdminRole string `koanf:"admin_role"`

	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs requests per RateLimitWindow per client on the API.
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"gt=0"`

	// TriggerLimitReqs caps manual run requests per RateLimitWindow.
	// Default: 5.
	TriggerLimitReqs int `koanf:"trigger_limit_reqs" validate:"min=1"`
}

// RecommendEngineConfig converts the recommend section to engine settings.
func (c *Config) RecommendEngineConfig() *recommend.Config {
	r := c.Recommend
	return &recommend.Config{
		HighRatingThreshold: r.HighRatingThreshold,
		SimilarWorksPerSeed: r.SimilarWorksPerSeed,
		TopWorks:            r.TopWorks,
		TopUsers:            r.TopUsers,
		TopInterests:        r.TopInterests,
		ContentWeight:       r.ContentWeight,
		CollaborativeWeight: r.CollaborativeWeight,
		SelfExclusion:       recommend.SelfExclusion(r.SelfExclusion),
		KNN: recommend.KNNConfig{
			K:          r.KNN.K,
			MinK:       r.KNN.MinK,
			MinSupport: r.KNN.MinSupport,
			RatingMin:  r.KNN.RatingMin,
			RatingMax:  r.KNN.RatingMax,
		},
		RunTimeout: r.RunTimeout,
	}
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
