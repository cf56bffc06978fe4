// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// isolate runs the test in an empty directory with CONFIG_PATH unset.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Input.Source != SourceFile {
		t.Errorf("Input.Source = %q, want file", cfg.Input.Source)
	}
	if cfg.Engine.DefaultLimit != 10 {
		t.Errorf("Engine.DefaultLimit = %d, want 10", cfg.Engine.DefaultLimit)
	}
	if cfg.Engine.MaxLimit != 1000 {
		t.Errorf("Engine.MaxLimit = %d, want 1000", cfg.Engine.MaxLimit)
	}
	if cfg.Engine.MinUsers != 0 {
		t.Errorf("Engine.MinUsers = %d, want 0", cfg.Engine.MinUsers)
	}
	if cfg.Database.Path != "/data/tanimoto.duckdb" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Store.Enabled {
		t.Error("Store should be disabled by default")
	}
	if cfg.Server.Port != 8088 {
		t.Errorf("Server.Port = %d, want 8088", cfg.Server.Port)
	}
	if cfg.Sink.BreakerFailures != 3 {
		t.Errorf("Sink.BreakerFailures = %d, want 3", cfg.Sink.BreakerFailures)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults %+v", cfg.Logging)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"INPUT_PATH", "input.path"},
		{"INPUT_SOURCE", "input.source"},
		{"ENGINE_MIN_USERS", "engine.min_users"},
		{"ENGINE_WORKERS", "engine.workers"},
		{"DUCKDB_PATH", "database.path"},
		{"BADGER_PATH", "store.path"},
		{"SINK_BREAKER_FAILURES", "sink.breaker_failures"},
		{"BATCH_INTERVAL", "batch.interval"},
		{"HTTP_PORT", "server.port"},
		{"API_CACHE_TTL", "api.cache_ttl"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},
		{"PATH", ""},
		{"HOME", ""},
		{"RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("engine: {}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() = %q, want config.yaml", got)
	}

	custom := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(custom, []byte("engine: {}\n"), 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, custom)
	if got := findConfigFile(); got != custom {
		t.Errorf("findConfigFile() = %q, want %q", got, custom)
	}

	// A missing CONFIG_PATH falls back to the default search.
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() = %q, want config.yaml fallback", got)
	}
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolate(t)

	t.Setenv("INPUT_PATH", "/tmp/plays.csv")
	t.Setenv("ENGINE_MIN_USERS", "3")
	t.Setenv("ENGINE_WORKERS", "8")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("BATCH_INTERVAL", "6h")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Input.Path != "/tmp/plays.csv" {
		t.Errorf("Input.Path = %q", cfg.Input.Path)
	}
	if cfg.Engine.MinUsers != 3 || cfg.Engine.Workers != 8 {
		t.Errorf("Engine = %+v", cfg.Engine)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Batch.Interval != 6*time.Hour {
		t.Errorf("Batch.Interval = %v, want 6h", cfg.Batch.Interval)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}

	// Untouched defaults survive
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := isolate(t)

	content := `
input:
  source: duckdb
  table: plays
engine:
  default_limit: 25
  min_users: 2
database:
  path: ":memory:"
store:
  enabled: true
  path: ""
security:
  cors_origins:
    - https://app.example
`
	path := filepath.Join(dir, "tanimoto.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Input.Source != SourceDuckDB || cfg.Input.Table != "plays" {
		t.Errorf("Input = %+v", cfg.Input)
	}
	if cfg.Engine.DefaultLimit != 25 || cfg.Engine.MinUsers != 2 {
		t.Errorf("Engine = %+v", cfg.Engine)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if !cfg.Store.Enabled || cfg.Store.Path != "" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"https://app.example"}) {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  workers: 2\nserver:\n  port: 7000\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ENGINE_WORKERS", "16")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Engine.Workers != 16 {
		t.Errorf("Engine.Workers = %d, want env value 16", cfg.Engine.Workers)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want file value 7000", cfg.Server.Port)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "negative min users", env: map[string]string{"ENGINE_MIN_USERS": "-1"}, wantErr: "engine.min_users"},
		{name: "bad source", env: map[string]string{"INPUT_SOURCE": "kafka"}, wantErr: "input.source"},
		{name: "empty input path", env: map[string]string{"INPUT_PATH": " "}, wantErr: "INPUT_PATH"},
		{name: "duckdb source without database", env: map[string]string{"INPUT_SOURCE": "duckdb", "DUCKDB_ENABLED": "false"}, wantErr: "DUCKDB_ENABLED"},
		{name: "default above max", env: map[string]string{"ENGINE_DEFAULT_LIMIT": "50", "ENGINE_MAX_LIMIT": "10"}, wantErr: "ENGINE_DEFAULT_LIMIT"},
		{name: "bad port", env: map[string]string{"HTTP_PORT": "70000"}, wantErr: "server.port"},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loud"}, wantErr: "LOG_LEVEL"},
		{name: "bad log format", env: map[string]string{"LOG_FORMAT": "xml"}, wantErr: "logging.format"},
		{name: "zero rate limit", env: map[string]string{"RATE_LIMIT_REQUESTS": "0"}, wantErr: "RATE_LIMIT_REQUESTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRateLimitDisabledSkipsChecks(t *testing.T) {
	isolate(t)
	t.Setenv("RATE_LIMIT_REQUESTS", "0")
	t.Setenv("DISABLE_RATE_LIMIT", "true")

	if _, err := LoadWithKoanf(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHelpers(t *testing.T) {
	cfg := defaultConfig()

	if got := cfg.Server.Addr(); got != "0.0.0.0:8088" {
		t.Errorf("Addr() = %q", got)
	}
	if got := cfg.BatchLimit(); got != 10 {
		t.Errorf("BatchLimit() = %d, want engine default 10", got)
	}
	cfg.Batch.Limit = 50
	if got := cfg.BatchLimit(); got != 50 {
		t.Errorf("BatchLimit() = %d, want 50", got)
	}
}
