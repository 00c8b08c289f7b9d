// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

// Package memory provides an in-process recommend.Store.
//
// Nodes, frequency counts and cached recommendation lists are held in maps.
// The global top-K is a cache.ScoreHeap bounded to topLimit entries. Since
// the complete frequency map is retained, a value evicted from the heap
// re-enters with its full count the next time it is incremented, which keeps
// the top-K exact.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/tomtom215/cooccur/internal/cache"
	"github.com/tomtom215/cooccur/internal/recommend"
)

// BackendName identifies this store in logs and metrics.
const BackendName = "memory"

// Store is an in-memory recommend.Store. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	nodes    map[recommend.Key]*recommend.Node
	counts   map[recommend.Key]int64
	recs     map[recommend.Key][]recommend.Recommendation
	top      *cache.ScoreHeap[recommend.Key]
	topLimit int
}

var _ recommend.Store = (*Store)(nil)

// New creates an empty store whose top-K holds at most topLimit values.
// A non-positive topLimit falls back to recommend.DefaultTopLimit.
func New(topLimit int) *Store {
	if topLimit < 1 {
		topLimit = recommend.DefaultTopLimit
	}
	return &Store{
		nodes:    make(map[recommend.Key]*recommend.Node),
		counts:   make(map[recommend.Key]int64),
		recs:     make(map[recommend.Key][]recommend.Recommendation),
		top:      cache.NewScoreHeap[recommend.Key](topLimit),
		topLimit: topLimit,
	}
}

// Name implements recommend.Store.
func (s *Store) Name() string { return BackendName }

// Close implements recommend.Store.
func (s *Store) Close() error { return nil }

// GetNode implements recommend.Store.
func (s *Store) GetNode(ctx context.Context, id recommend.Key) (*recommend.Node, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[id]
	if !ok {
		return nil, false, nil
	}
	values := node.Values.Keys()
	slices.Sort(values)
	return &recommend.Node{ID: node.ID, Values: recommend.NewValueSet(values...)}, true, nil
}

// AddNode implements recommend.Store.
func (s *Store) AddNode(ctx context.Context, node recommend.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes[node.ID] = &recommend.Node{ID: node.ID, Values: node.Values.Clone()}
	return nil
}

// AddEdge implements recommend.Store.
func (s *Store) AddEdge(ctx context.Context, from, to recommend.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[from]
	if !ok {
		node = &recommend.Node{ID: from, Values: recommend.NewValueSet()}
		s.nodes[from] = node
	}
	node.Values.Add(to)

	s.counts[to]++
	s.top.Push(to, s.counts[to])
	return nil
}

// GetRecommendations implements recommend.Store.
func (s *Store) GetRecommendations(ctx context.Context, value recommend.Key) ([]recommend.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cached := s.recs[value]
	out := make([]recommend.Recommendation, len(cached))
	copy(out, cached)
	return out, nil
}

// UpdateRecommendations implements recommend.Store.
func (s *Store) UpdateRecommendations(ctx context.Context, value recommend.Key, recs []recommend.Recommendation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := make([]recommend.Recommendation, len(recs))
	copy(stored, recs)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.recs[value] = stored
	return nil
}

// GetTopOverallRecommendations implements recommend.Store.
func (s *Store) GetTopOverallRecommendations(ctx context.Context) ([]recommend.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := s.top.Descending()
	if len(entries) > s.topLimit {
		entries = entries[:s.topLimit]
	}
	out := make([]recommend.Recommendation, len(entries))
	for i, e := range entries {
		out[i] = recommend.Recommendation{Value: e.Key, Score: e.Score}
	}
	return out, nil
}

// ComputeRecommendations implements recommend.Store.
func (s *Store) ComputeRecommendations(ctx context.Context, value recommend.Key) ([]recommend.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[recommend.Key]int64)
	for _, node := range s.nodes {
		if !node.Values.Has(value) {
			continue
		}
		for _, v := range node.Values.Keys() {
			if v != value {
				counts[v]++
			}
		}
	}
	return recommend.CountsToRecommendations(counts), nil
}

// GetAllNodeIDs implements recommend.Store.
func (s *Store) GetAllNodeIDs(ctx context.Context) ([]recommend.Key, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]recommend.Key, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	return ids, nil
}

// Count returns the frequency counter for value.
func (s *Store) Count(_ context.Context, value recommend.Key) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[value], nil
}
