// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages.
// Metrics are reported through the Recorder interface, which the metrics
// package implements.

// Recompute triggers reported to the Recorder.
const (
	TriggerAddObject = "add_object"
	TriggerAddRange  = "add_range"
	TriggerRefresh   = "refresh"
)

// Recorder receives engine instrumentation.
type Recorder interface {
	// ObserveOperation is called once per engine operation.
	ObserveOperation(op string, duration time.Duration, err error)

	// ObserveRecompute is called each time a value's cached list is rebuilt.
	ObserveRecompute(trigger string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, time.Duration, error) {}
func (nopRecorder) ObserveRecompute(string)                       {}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder sets the instrumentation sink.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// Engine answers co-occurrence queries on top of a Store and decides when
// cached per-value recommendation lists are recomputed.
//
// Writes are serialized by an engine-wide mutex so the multi-step write
// sequences of one process never interleave. Reads take no engine lock.
type Engine struct {
	store    Store
	config   Config
	logger   zerolog.Logger
	recorder Recorder

	writeMu sync.Mutex
}

// NewEngine creates an engine over store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(store Store, cfg *Config, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		store:    store,
		config:   *cfg,
		logger:   logger.With().Str("component", "recommend").Str("backend", store.Name()).Logger(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Store returns the backing store.
func (e *Engine) Store() Store {
	return e.store
}

// TopLimit returns the configured size of the overall top-K.
func (e *Engine) TopLimit() int {
	return e.config.TopLimit
}

// AddObject registers id with values. Every value's cached list is rebuilt
// unless it already mentions at least one of the object's own values.
func (e *Engine) AddObject(ctx context.Context, id Key, values []Key) (err error) {
	defer e.observe("add_object", time.Now(), &err)

	if err := validateWrite(id, values); err != nil {
		return err
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	own := NewValueSet(values...)
	if err := e.store.AddNode(ctx, Node{ID: id, Values: own}); err != nil {
		return fmt.Errorf("add node: %w", err)
	}
	for _, v := range values {
		if err := e.store.AddEdge(ctx, id, v); err != nil {
			return fmt.Errorf("add edge: %w", err)
		}
	}

	recomputed := 0
	for _, v := range own.Keys() {
		cached, err := e.store.GetRecommendations(ctx, v)
		if err != nil {
			return fmt.Errorf("get recommendations: %w", err)
		}
		if mentionsAny(cached, own) {
			continue
		}
		if err := e.recompute(ctx, v, TriggerAddObject); err != nil {
			return err
		}
		recomputed++
	}

	e.logger.Debug().
		Str("id", id.String()).
		Int("values", own.Len()).
		Int("recomputed", recomputed).
		Msg("object added")
	return nil
}

// AddRange merges values into id, creating the object if needed. Only values
// with an empty cached list are recomputed.
func (e *Engine) AddRange(ctx context.Context, id Key, values []Key) (err error) {
	defer e.observe("add_range", time.Now(), &err)

	if err := validateWrite(id, values); err != nil {
		return err
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	node, ok, err := e.store.GetNode(ctx, id)
	if err != nil {
		return fmt.Errorf("get node: %w", err)
	}
	if !ok {
		node = &Node{ID: id, Values: NewValueSet()}
	}

	for _, v := range values {
		if err := e.store.AddEdge(ctx, id, v); err != nil {
			return fmt.Errorf("add edge: %w", err)
		}
		node.Values.Add(v)
	}
	if err := e.store.AddNode(ctx, *node); err != nil {
		return fmt.Errorf("add node: %w", err)
	}

	recomputed := 0
	for _, v := range node.Values.Keys() {
		cached, err := e.store.GetRecommendations(ctx, v)
		if err != nil {
			return fmt.Errorf("get recommendations: %w", err)
		}
		if len(cached) > 0 {
			continue
		}
		if err := e.recompute(ctx, v, TriggerAddRange); err != nil {
			return err
		}
		recomputed++
	}

	e.logger.Debug().
		Str("id", id.String()).
		Int("added", len(values)).
		Int("values", node.Values.Len()).
		Int("recomputed", recomputed).
		Msg("range added")
	return nil
}

// FindMostCommonValues returns up to n values that co-occur with value.
func (e *Engine) FindMostCommonValues(ctx context.Context, value Key, n int) ([]Key, error) {
	recs, err := e.MostCommonRecommendations(ctx, value, n)
	if err != nil {
		return nil, err
	}
	return Values(recs), nil
}

// MostCommonRecommendations is FindMostCommonValues with scores.
func (e *Engine) MostCommonRecommendations(ctx context.Context, value Key, n int) (recs []Recommendation, err error) {
	defer e.observe("find_most_common_values", time.Now(), &err)

	if n <= 0 {
		return []Recommendation{}, nil
	}
	cached, err := e.store.GetRecommendations(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("get recommendations: %w", err)
	}
	return truncate(cached, n), nil
}

// FindMostCommonValuesForID returns up to n values the object does not have
// yet, collected in first-seen order from the cached lists of its own values.
func (e *Engine) FindMostCommonValuesForID(ctx context.Context, id Key, n int) ([]Key, error) {
	recs, err := e.MostCommonRecommendationsForID(ctx, id, n)
	if err != nil {
		return nil, err
	}
	return Values(recs), nil
}

// MostCommonRecommendationsForID is FindMostCommonValuesForID with scores.
// Each value carries the score of the list it was first seen in.
func (e *Engine) MostCommonRecommendationsForID(ctx context.Context, id Key, n int) (recs []Recommendation, err error) {
	defer e.observe("find_most_common_values_for_id", time.Now(), &err)

	if n <= 0 {
		return []Recommendation{}, nil
	}
	node, ok, err := e.store.GetNode(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get node: %w", err)
	}
	if !ok {
		return []Recommendation{}, nil
	}

	out := make([]Recommendation, 0, n)
	seen := NewValueSet()
	for _, own := range node.Values.Keys() {
		cached, err := e.store.GetRecommendations(ctx, own)
		if err != nil {
			return nil, fmt.Errorf("get recommendations: %w", err)
		}
		for _, rec := range cached {
			if node.Values.Has(rec.Value) || !seen.Add(rec.Value) {
				continue
			}
			out = append(out, rec)
			if len(out) == n {
				return out, nil
			}
		}
	}
	return out, nil
}

// FindOverallMostCommonValues returns the globally most frequent values.
func (e *Engine) FindOverallMostCommonValues(ctx context.Context) ([]Key, error) {
	recs, err := e.OverallRecommendations(ctx)
	if err != nil {
		return nil, err
	}
	return Values(recs), nil
}

// OverallRecommendations is FindOverallMostCommonValues with scores.
func (e *Engine) OverallRecommendations(ctx context.Context) (recs []Recommendation, err error) {
	defer e.observe("find_overall_most_common_values", time.Now(), &err)

	top, err := e.store.GetTopOverallRecommendations(ctx)
	if err != nil {
		return nil, fmt.Errorf("get top overall recommendations: %w", err)
	}
	return truncate(top, e.config.TopLimit), nil
}

// RefreshAll rebuilds the cached list of every known value and returns the
// number of values refreshed. It scans the whole store and is meant for a
// background schedule, never a request path.
func (e *Engine) RefreshAll(ctx context.Context) (refreshed int, err error) {
	defer e.observe("refresh_all", time.Now(), &err)

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	ids, err := e.store.GetAllNodeIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("get all node ids: %w", err)
	}

	values := NewValueSet()
	for _, id := range ids {
		node, ok, err := e.store.GetNode(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("get node: %w", err)
		}
		if !ok {
			continue
		}
		for _, v := range node.Values.Keys() {
			values.Add(v)
		}
	}

	for _, v := range values.Keys() {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		if err := e.recompute(ctx, v, TriggerRefresh); err != nil {
			return refreshed, err
		}
		refreshed++
	}

	e.logger.Info().
		Int("objects", len(ids)).
		Int("values", refreshed).
		Msg("recommendation cache refreshed")
	return refreshed, nil
}

func (e *Engine) recompute(ctx context.Context, value Key, trigger string) error {
	recs, err := e.store.ComputeRecommendations(ctx, value)
	if err != nil {
		return fmt.Errorf("compute recommendations: %w", err)
	}
	if err := e.store.UpdateRecommendations(ctx, value, recs); err != nil {
		return fmt.Errorf("update recommendations: %w", err)
	}
	e.recorder.ObserveRecompute(trigger)
	return nil
}

func (e *Engine) observe(op string, start time.Time, err *error) {
	e.recorder.ObserveOperation(op, time.Since(start), *err)
}

func validateWrite(id Key, values []Key) error {
	if id == "" {
		return fmt.Errorf("%w: object id is empty", ErrInvalidArgument)
	}
	for _, v := range values {
		if v == "" {
			return fmt.Errorf("%w: object %s has an empty value", ErrInvalidArgument, id)
		}
	}
	return nil
}

// mentionsAny reports whether any recommendation names a value in set.
func mentionsAny(recs []Recommendation, set ValueSet) bool {
	for _, r := range recs {
		if set.Has(r.Value) {
			return true
		}
	}
	return false
}

func truncate(recs []Recommendation, n int) []Recommendation {
	if len(recs) > n {
		recs = recs[:n]
	}
	if recs == nil {
		return []Recommendation{}
	}
	return recs
}
