// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package config

import (
	"net"
	"strconv"
	"time"
)

// Input source kinds.
const (
	SourceFile   = "file"
	SourceDuckDB = "duckdb"
)

// Config holds all application configuration
type Config struct {
	Input    InputConfig    `koanf:"input"`
	Engine   EngineConfig   `koanf:"engine"`
	Database DatabaseConfig `koanf:"database"`
	Store    StoreConfig    `koanf:"store"`
	Sink     SinkConfig     `koanf:"sink"`
	Batch    BatchConfig    `koanf:"batch"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// InputConfig selects where interaction records come from.
type InputConfig struct {
	// Source is "file" (user,item log, optionally gzipped) or "duckdb" (a table
	// in the database configured below).
	Source string `koanf:"source" validate:"oneof=file duckdb"`

	// Path is the interaction log for the file source.
	Path string `koanf:"path"`

	// Table is the (user_id, item_id) table for the duckdb source.
	Table string `koanf:"table"`
}

// EngineConfig tunes the similarity engine.
type EngineConfig struct {
	// DefaultLimit is used when a request or batch run gives no limit.
	DefaultLimit int `koanf:"default_limit" validate:"gte=0"`

	// MaxLimit caps the limit accepted by the HTTP API.
	MaxLimit int `koanf:"max_limit" validate:"gte=1"`

	// MinUsers drops items with fewer watchers before pairing (0 = off).
	MinUsers int `koanf:"min_users" validate:"gte=0"`

	// Workers for the exhaustive computation (0 = runtime.NumCPU()).
	Workers int `koanf:"workers" validate:"gte=0,lte=1024"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Path      string `koanf:"path"` // ":memory:" for an in-process database
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"gte=0"` // 0 = DuckDB default
}

// StoreConfig holds the Badger result store settings.
type StoreConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"` // empty = in-memory
}

// SinkConfig guards result writes with a circuit breaker.
type SinkConfig struct {
	// BreakerFailures is the number of consecutive write failures that opens the breaker.
	BreakerFailures uint32 `koanf:"breaker_failures" validate:"gte=1"`

	// BreakerTimeout is how long the breaker stays open before a trial write.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// BatchConfig controls when the pipeline runs.
type BatchConfig struct {
	// Interval re-runs the pipeline periodically (0 = run once at startup).
	Interval time.Duration `koanf:"interval"`

	// Timeout bounds a single run (0 = unbounded).
	Timeout time.Duration `koanf:"timeout"`

	// Limit is the per-item neighbor count persisted by each run (0 = engine default).
	Limit int `koanf:"limit" validate:"gte=0"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// APIConfig holds query surface settings.
type APIConfig struct {
	CacheSize     int           `koanf:"cache_size" validate:"gte=0"` // 0 disables the response cache
	CacheTTL      time.Duration `koanf:"cache_ttl"`
	MaxPageSize   int           `koanf:"max_page_size" validate:"gte=1"`
	MaxAllResults int           `koanf:"max_all_results" validate:"gte=0"` // item cap for GET /similar, 0 = no cap
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional YAML file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// BatchLimit returns the neighbor count a batch run should use.
func (c *Config) BatchLimit() int {
	if c.Batch.Limit > 0 {
		return c.Batch.Limit
	}
	return c.Engine.DefaultLimit
}
