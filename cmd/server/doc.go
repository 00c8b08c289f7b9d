// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

// Package main is the entry point for the Cooccur server.
//
// Cooccur recommends values that tend to appear together. Objects register
// a set of values over HTTP or NATS; the server answers which values are
// most common alongside a value, which values an object probably also has,
// and which values are most frequent overall.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, then config.yaml, then environment (Koanf v2)
//  2. Store: in-memory or Redis, selected by STORE_BACKEND
//  3. Engine: the recommendation engine over the store
//  4. Supervisor tree: refresh service, NATS ingestion, HTTP server
//
// # Configuration
//
// Common environment variables:
//
//	STORE_BACKEND=memory|redis   storage backend (default memory)
//	TOP_LIMIT=10                 size of the overall most-common list
//	REDIS_ADDR=localhost:6379    Redis address when STORE_BACKEND=redis
//	HTTP_PORT=3857               HTTP listen port
//	NATS_ENABLED=true            consume {prefix}.objects.add / .range
//	REFRESH_ENABLED=true         periodically rebuild cached lists
//	LOG_LEVEL=debug              trace, debug, info, warn, error
//
// # HTTP Endpoints
//
//	POST /addObject                                 {"id": 1, "values": ["a", "b"]}
//	POST /addRange                                  {"id": 1, "values": ["c"]}
//	GET  /findMostCommonValues/{value}/{numValues}
//	GET  /findMostCommonValuesForId/{id}/{numValues}
//	GET  /findOverallMostCommonValues
//	GET  /health/live, /health/ready, /metrics
//
// # Example Usage
//
//	export STORE_BACKEND=redis
//	export REDIS_ADDR=redis:6379
//	./cooccur
//
//	curl -X POST localhost:3857/addObject -d '{"id":"1","values":["a","b","c"]}'
//	curl localhost:3857/findMostCommonValues/a/5
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor stops every
// service, the HTTP server drains in-flight requests within
// HTTP_SHUTDOWN_TIMEOUT, and the store connection is closed last.
package main
