// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/tanimoto/internal/logging"
	"github.com/tomtom215/tanimoto/internal/validation"
)

// Validate checks field ranges (validate tags) and cross-field rules.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateInput(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateOutputs(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateInput() error {
	switch c.Input.Source {
	case SourceFile:
		if strings.TrimSpace(c.Input.Path) == "" {
			return fmt.Errorf("INPUT_PATH is required when INPUT_SOURCE=file")
		}
	case SourceDuckDB:
		if !c.Database.Enabled {
			return fmt.Errorf("INPUT_SOURCE=duckdb requires DUCKDB_ENABLED=true")
		}
		if strings.TrimSpace(c.Input.Table) == "" {
			return fmt.Errorf("INPUT_TABLE is required when INPUT_SOURCE=duckdb")
		}
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.DefaultLimit > c.Engine.MaxLimit {
		return fmt.Errorf("ENGINE_DEFAULT_LIMIT (%d) must not exceed ENGINE_MAX_LIMIT (%d)",
			c.Engine.DefaultLimit, c.Engine.MaxLimit)
	}
	if c.Batch.Limit > c.Engine.MaxLimit {
		return fmt.Errorf("BATCH_LIMIT (%d) must not exceed ENGINE_MAX_LIMIT (%d)",
			c.Batch.Limit, c.Engine.MaxLimit)
	}
	if c.Batch.Interval < 0 || c.Batch.Timeout < 0 {
		return fmt.Errorf("BATCH_INTERVAL and BATCH_TIMEOUT must not be negative")
	}
	return nil
}

func (c *Config) validateOutputs() error {
	if c.Database.Enabled && strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required when DUCKDB_ENABLED=true")
	}
	if c.Sink.BreakerTimeout <= 0 {
		return fmt.Errorf("SINK_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive (or set DISABLE_RATE_LIMIT=true)")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic, disabled (got %q)", c.Logging.Level)
	}
	return nil
}
