// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, optional YAML file, and env vars.
// - External errors are wrapped via this package's error kinds.
package config

import "runtime"

// Default decision thresholds. Request-independent configuration.
const (
	defaultPromoteThreshold    = 0.72
	defaultBorderlineThreshold = 0.60
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL is the Postgres connection string. Empty selects the
	// in-memory store (local development).
	DatabaseURL string `koanf:"database_url"`

	// ModelDir holds the scoring artifact (features.json + model.json).
	ModelDir string `koanf:"model_dir"`

	// PromoteThreshold and BorderlineThreshold drive the decision policy.
	PromoteThreshold    float64 `koanf:"promote_threshold"`
	BorderlineThreshold float64 `koanf:"borderline_threshold"`

	// IngestQueueSize bounds the in-memory activity event queue.
	IngestQueueSize int `koanf:"ingest_queue_size"`

	// WorkerCount sets the number of ingest workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the event deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ExplainTopN caps how many factors /v1/explain/local returns.
	ExplainTopN int `koanf:"explain_top_n"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DatabaseURL:         "",
		ModelDir:            "ml/artifacts",
		PromoteThreshold:    defaultPromoteThreshold,
		BorderlineThreshold: defaultBorderlineThreshold,
		IngestQueueSize:     100_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          500_000,
		ExplainTopN:         5,
	}
}
