// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package api

import (
	"context"
	"time"

	"github.com/tomtom215/cooccur/internal/recommend"
)

// Engine is the part of recommend.Engine served over HTTP.
type Engine interface {
	AddObject(ctx context.Context, id recommend.Key, values []recommend.Key) error
	AddRange(ctx context.Context, id recommend.Key, values []recommend.Key) error
	MostCommonRecommendations(ctx context.Context, value recommend.Key, n int) ([]recommend.Recommendation, error)
	MostCommonRecommendationsForID(ctx context.Context, id recommend.Key, n int) ([]recommend.Recommendation, error)
	OverallRecommendations(ctx context.Context) ([]recommend.Recommendation, error)
}

var _ Engine = (*recommend.Engine)(nil)

// readyTimeout bounds the store round trip of the readiness probe.
const readyTimeout = 2 * time.Second

// Handler serves the HTTP endpoints.
type Handler struct {
	engine    Engine
	backend   string
	startTime time.Time
}

// NewHandler creates a Handler. backend names the storage backend in the
// readiness payload.
func NewHandler(engine Engine, backend string) *Handler {
	return &Handler{
		engine:    engine,
		backend:   backend,
		startTime: time.Now(),
	}
}
