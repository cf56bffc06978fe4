// Tanimoto - Item-to-Item Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tanimoto

/*
Package config loads application configuration with koanf.

Sources are layered, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. YAML file: CONFIG_PATH, else config.yaml / config.yml in the working
    directory, else /etc/tanimoto/config.yaml
 3. Environment variables, mapped explicitly (INPUT_PATH, ENGINE_MIN_USERS,
    DUCKDB_PATH, BADGER_PATH, HTTP_PORT, LOG_LEVEL, ...)

# Sections

  - input: where interactions come from (gzip-aware log file or DuckDB table)
  - engine: default/max limit, minimum watcher threshold, worker count
  - database: DuckDB result sink and optional interaction source
  - store: Badger snapshot of per-item neighbor lists
  - sink: circuit breaker guarding result writes
  - batch: run interval, timeout and persisted neighbor count
  - server, api, security: HTTP listener, response cache, rate limit, CORS
  - logging: zerolog level and format

# Validation

Field ranges are declared as validate tags and checked through the validation
package; cross-field rules (source vs. database, default vs. max limit, rate
limit settings, log level) are checked in Validate. Errors name the
environment variable to change.

# Example YAML

	input:
	  source: file
	  path: /data/plays.csv.gz
	engine:
	  default_limit: 20
	  min_users: 5
	  workers: 8
	batch:
	  interval: 6h
*/
package config
