// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

/*
Package config loads and validates the server configuration.

# Configuration Sources

Configuration is layered with koanf, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, else the first of DefaultConfigPaths
 3. Environment variables listed in the envTransformFunc mapping table

Environment variables outside the table are ignored. Comma-separated values
are split for slice fields such as security.cors_origins.

# Sections

  - ServerConfig: HTTP listener and timeouts
  - StoreConfig: backend selection (memory or redis) and the top-K bound
  - RedisConfig: connection, pool, key prefix and circuit breaker settings
  - NATSConfig: optional ingestion subscriber
  - RefreshConfig: optional periodic recomputation of every cached list
  - SecurityConfig: CORS origins and rate limiting
  - LoggingConfig: level, format and caller reporting

# Example

	STORE_BACKEND=redis REDIS_ADDR=redis:6379 TOP_LIMIT=20 ./cooccur

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal().Err(err).Msg("load configuration")
	}
*/
package config
