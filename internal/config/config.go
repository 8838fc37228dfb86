// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// SnapshotQueueSize bounds the in-memory snapshot queue.
	SnapshotQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of pipeline workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the snapshot deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// Tolerance is the allowed gap between reported and counted
	// contributions before a discrepancy is raised.
	Tolerance int `koanf:"tolerance"`

	// InactiveWeeks is the number of weeks without reported activity
	// before an inactivity alert is raised.
	InactiveWeeks int `koanf:"inactive_weeks"`

	// MaxTimelineLimit caps GET /timeline?limit.
	MaxTimelineLimit int `koanf:"max_timeline_limit"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and is
// currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		SnapshotQueueSize: 10_000,
		WorkerCount:       runtime.NumCPU() * 2,
		DedupeSize:        50_000,
		Tolerance:         2,
		InactiveWeeks:     2,
		MaxTimelineLimit:  500,
	}
	return c
}
