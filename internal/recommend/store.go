// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package recommend

import "context"

// Store owns all index state: nodes, frequency counts, cached per-value
// recommendation lists and the global top-K structure.
//
// Absence is never an error. Backend failures are returned wrapped in a
// *BackendError so errors.Is(err, ErrBackendUnavailable) holds.
type Store interface {
	// GetNode returns the node for id. The bool is false if id was never written.
	// Values are returned in ascending order so every backend walks an
	// object's values identically.
	GetNode(ctx context.Context, id Key) (*Node, bool, error)

	// AddNode upserts node, replacing its value set wholesale.
	AddNode(ctx context.Context, node Node) error

	// AddEdge ensures from exists, adds to to its value set and counts one
	// occurrence of to in the global frequency counter and top-K structure.
	// The count is incremented even when to was already present.
	AddEdge(ctx context.Context, from, to Key) error

	// GetRecommendations returns the cached list for value, or an empty slice.
	GetRecommendations(ctx context.Context, value Key) ([]Recommendation, error)

	// UpdateRecommendations replaces the cached list for value.
	UpdateRecommendations(ctx context.Context, value Key, recs []Recommendation) error

	// GetTopOverallRecommendations returns at most topLimit entries, score descending.
	GetTopOverallRecommendations(ctx context.Context) ([]Recommendation, error)

	// ComputeRecommendations counts every value co-occurring with value by
	// scanning all nodes. The cache is not touched.
	ComputeRecommendations(ctx context.Context, value Key) ([]Recommendation, error)

	// GetAllNodeIDs enumerates every known object id.
	GetAllNodeIDs(ctx context.Context) ([]Key, error)

	// Name identifies the backend in logs and metrics.
	Name() string

	// Close releases backend resources.
	Close() error
}
