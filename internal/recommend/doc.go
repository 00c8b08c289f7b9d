// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

// Package recommend implements a co-occurrence recommendation index.
//
// # Model
//
// Objects register a set of values. Two values co-occur when they appear in
// the same object's value set. The index answers three queries:
//
//   - FindMostCommonValues: what commonly appears with value V
//   - FindMostCommonValuesForID: what would object O probably also have
//   - FindOverallMostCommonValues: the globally most frequent values
//
// All state lives behind the Store interface. Two implementations exist:
// memory.Store keeps everything in process and redisstore.Store keeps it in
// Redis. The Engine depends only on the interface.
//
// # Caching
//
// Per-value recommendation lists are computed by a full scan of the store and
// cached. The engine recomputes lazily:
//
//   - AddObject rebuilds a value's list when the cached list is empty or
//     mentions none of the new object's values.
//   - AddRange rebuilds only lists that are empty.
//
// Stale lists are tolerated until a later write triggers a rebuild, or until
// RefreshAll runs.
//
// # Top-K
//
// Both backends keep a full frequency count for every value and a bounded
// top-K structure updated on every edge. Because counts only grow by one, a
// value re-enters the structure as soon as it overtakes the current minimum,
// so the overall query is exact (ties are broken by value).
//
// # Usage
//
//	store := memory.New(recommend.DefaultTopLimit)
//	engine, err := recommend.NewEngine(store, recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	_ = engine.AddObject(ctx, "1", recommend.Keys("a", "b", "c"))
//	values, _ := engine.FindMostCommonValues(ctx, "a", 5)
//
// # Thread Safety
//
// The engine is safe for concurrent use. AddObject, AddRange and RefreshAll
// are serialized by an engine-wide mutex; queries run concurrently.
package recommend
