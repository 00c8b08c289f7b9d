// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

// Package redisstore provides a recommend.Store backed by Redis.
//
// # Semantics
//
// An edge insertion runs as a single Lua script: the value is added to the
// node set, its full count is incremented in a hash and written into the
// top-K sorted set, which is then trimmed to the topLimit highest ranks.
// Keeping the full count hash makes the top-K exact, matching the
// in-memory store.
//
// Cached recommendation lists are replaced inside MULTI/EXEC, so a reader
// never observes a cleared but not yet rewritten list.
//
// ComputeRecommendations and GetAllNodeIDs walk the node index with SSCAN
// and read every node set. They are full scans and do not belong on request
// paths.
//
// # Failure Handling
//
// Every call is routed through a gobreaker circuit breaker. Connection and
// protocol errors, and calls rejected by an open breaker, are returned as
// *recommend.BackendError so errors.Is(err, recommend.ErrBackendUnavailable)
// holds. Context cancellation is returned unchanged and does not count
// against the breaker.
package redisstore
