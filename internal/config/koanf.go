// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

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

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tanimoto/config.yaml",
	"/etc/tanimoto/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults, applied before file and env layers.
func defaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Source: SourceFile,
			Path:   "/data/interactions.csv.gz",
			Table:  "interactions",
		},
		Engine: EngineConfig{
			DefaultLimit: 10,
			MaxLimit:     1000,
			MinUsers:     0,
			Workers:      0,
		},
		Database: DatabaseConfig{
			Enabled:   true,
			Path:      "/data/tanimoto.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Store: StoreConfig{
			Enabled: false,
			Path:    "/data/results",
		},
		Sink: SinkConfig{
			BreakerFailures: 3,
			BreakerTimeout:  30 * time.Second,
		},
		Batch: BatchConfig{
			Interval: 0,
			Timeout:  time.Hour,
			Limit:    0,
		},
		Server: ServerConfig{
			Enabled:         true,
			Port:            8088,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			CacheSize:     10000,
			CacheTTL:      10 * time.Minute,
			MaxPageSize:   1000,
			MaxAllResults: 50000,
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration in three layers, later layers winning:
//  1. Built-in defaults
//  2. Optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// INPUT_PATH -> input.path, ENGINE_MIN_USERS -> engine.min_users, ...
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

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated strings for known slice fields.
// YAML lists pass through untouched.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unlisted variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	// Input
	"input_source": "input.source",
	"input_path":   "input.path",
	"input_table":  "input.table",

	// Engine
	"engine_default_limit": "engine.default_limit",
	"engine_max_limit":     "engine.max_limit",
	"engine_min_users":     "engine.min_users",
	"engine_workers":       "engine.workers",

	// Database
	"duckdb_enabled":    "database.enabled",
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Result store
	"badger_enabled": "store.enabled",
	"badger_path":    "store.path",

	// Sink
	"sink_breaker_failures": "sink.breaker_failures",
	"sink_breaker_timeout":  "sink.breaker_timeout",

	// Batch
	"batch_interval": "batch.interval",
	"batch_timeout":  "batch.timeout",
	"batch_limit":    "batch.limit",

	// Server
	"http_enabled":          "server.enabled",
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// API
	"api_cache_size":      "api.cache_size",
	"api_cache_ttl":       "api.cache_ttl",
	"api_max_page_size":   "api.max_page_size",
	"api_max_all_results": "api.max_all_results",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
//
// Examples:
//   - INPUT_PATH -> input.path
//   - ENGINE_MIN_USERS -> engine.min_users
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
