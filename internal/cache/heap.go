// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package cache

import (
	"cmp"
	"slices"
	"sync"
)

// HeapEntry is a scored entry held by a ScoreHeap.
type HeapEntry[K cmp.Ordered] struct {
	Key   K
	Score int64
	index int // position in the heap array, used for O(log n) updates
}

// ScoreHeap is a size-bounded min-heap ordered by score.
//
// Once the heap holds more than maxLen entries the lowest scored entry is
// evicted, so the heap retains the maxLen highest scores it has been given.
// A parallel map gives O(1) lookup by key.
type ScoreHeap[K cmp.Ordered] struct {
	mu     sync.RWMutex
	heap   []*HeapEntry[K]
	byKey  map[K]*HeapEntry[K]
	maxLen int // maximum entries (0 = unlimited)
}

// NewScoreHeap creates a score heap holding at most maxLen entries.
func NewScoreHeap[K cmp.Ordered](maxLen int) *ScoreHeap[K] {
	return &ScoreHeap[K]{
		heap:   make([]*HeapEntry[K], 0, maxLen+1),
		byKey:  make(map[K]*HeapEntry[K]),
		maxLen: maxLen,
	}
}

// Push inserts key with score, replacing any existing entry for key.
// Entries are evicted lowest-score first until the heap is back within
// capacity. The pushed entry itself may be evicted when its score is the
// lowest.
func (h *ScoreHeap[K]) Push(key K, score int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.byKey[key]; ok {
		h.removeAt(existing.index)
	}

	entry := &HeapEntry[K]{Key: key, Score: score, index: len(h.heap)}
	h.heap = append(h.heap, entry)
	h.byKey[key] = entry
	h.bubbleUp(entry.index)

	for h.maxLen > 0 && len(h.heap) > h.maxLen {
		h.removeAt(0)
	}
}

// Descending returns a snapshot of all entries sorted by score, highest
// first. Equal scores are ordered by key so the output is deterministic.
func (h *ScoreHeap[K]) Descending() []HeapEntry[K] {
	h.mu.RLock()
	out := make([]HeapEntry[K], len(h.heap))
	for i, e := range h.heap {
		out[i] = HeapEntry[K]{Key: e.Key, Score: e.Score}
	}
	h.mu.RUnlock()

	slices.SortFunc(out, func(a, b HeapEntry[K]) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}

// Internal heap operations (must be called with lock held)

// removeAt removes the element at index i.
func (h *ScoreHeap[K]) removeAt(i int) *HeapEntry[K] {
	n := len(h.heap) - 1
	entry := h.heap[i]
	delete(h.byKey, entry.Key)

	if i == n {
		h.heap = h.heap[:n]
		return entry
	}

	h.heap[i] = h.heap[n]
	h.heap[i].index = i
	h.heap = h.heap[:n]
	h.fix(i)

	return entry
}

// fix restores the heap property after the element at i changed.
func (h *ScoreHeap[K]) fix(i int) {
	if h.bubbleUp(i) {
		return
	}
	h.bubbleDown(i)
}

// bubbleUp moves the element at i towards the root.
// Returns true if the element moved.
func (h *ScoreHeap[K]) bubbleUp(i int) bool {
	moved := false
	for i > 0 {
		parent := (i - 1) / 2
		if h.heap[i].Score >= h.heap[parent].Score {
			break
		}
		h.swap(i, parent)
		i = parent
		moved = true
	}
	return moved
}

// bubbleDown moves the element at i towards the leaves.
func (h *ScoreHeap[K]) bubbleDown(i int) {
	n := len(h.heap)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && h.heap[left].Score < h.heap[smallest].Score {
			smallest = left
		}
		if right < n && h.heap[right].Score < h.heap[smallest].Score {
			smallest = right
		}
		if smallest == i {
			break
		}

		h.swap(i, smallest)
		i = smallest
	}
}

func (h *ScoreHeap[K]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.heap[i].index = i
	h.heap[j].index = j
}
