// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

/*
Package cache provides the bounded in-memory structures used by the
in-memory recommendation store.

# ScoreHeap

ScoreHeap is a min-heap keyed by an ordered key type and ordered by an int64
score. It is bounded: when a push takes it over capacity the lowest scored
entries are evicted until it fits again. Combined with a complete frequency
map held by the caller this yields an exact top-K view, because a key that
was evicted re-enters with its full count the next time it is pushed.

	h := cache.NewScoreHeap[string](10)
	h.Push("jazz", 4)
	h.Push("blues", 7)
	for _, e := range h.Descending() {
	    fmt.Println(e.Key, e.Score)
	}

# Thread Safety

All ScoreHeap methods are safe for concurrent use. Entries returned by
Descending are copies.
*/
package cache
