// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cooccur/internal/logging"
	"github.com/tomtom215/cooccur/internal/metrics"
)

const defaultRefreshInterval = time.Hour

// Refresher recomputes every cached recommendation list.
// Satisfied by *recommend.Engine.
type Refresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// RefreshServiceConfig controls the refresh schedule.
type RefreshServiceConfig struct {
	// Interval between runs. Default: 1h
	Interval time.Duration

	// RunOnStart triggers a run as soon as the service starts.
	RunOnStart bool

	// Timeout bounds a single run. Default: Interval
	Timeout time.Duration
}

// RefreshService periodically rebuilds cached recommendation lists from
// the store, repairing lists left stale by writers in other processes.
type RefreshService struct {
	refresher Refresher
	config    RefreshServiceConfig
	logger    zerolog.Logger
}

// NewRefreshService creates the service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRefreshService(refresher Refresher, cfg RefreshServiceConfig, logger zerolog.Logger) *RefreshService {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultRefreshInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	return &RefreshService{
		refresher: refresher,
		config:    cfg,
		logger:    logger.With().Str("service", "refresh").Logger(),
	}
}

// Serve runs refreshes on a ticker until ctx is canceled. A failed run is
// logged and counted; it does not stop the service.
func (s *RefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("run_on_start", s.config.RunOnStart).
		Dur("interval", s.config.Interval).
		Msg("refresh service starting")

	if s.config.RunOnStart {
		s.refresh(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("refresh service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *RefreshService) refresh(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(logging.ContextWithNewCorrelationID(ctx), s.config.Timeout)
	defer cancel()

	start := time.Now()
	n, err := s.refresher.RefreshAll(runCtx)
	duration := time.Since(start)
	metrics.RecordRefresh(n, duration, err)

	log := logging.Ctx(logging.ContextWithLogger(runCtx, s.logger))
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Int("values", n).Dur("duration", duration).Msg("refresh failed")
		return
	}
	log.Info().Int("values", n).Dur("duration", duration).Msg("refresh complete")
}

// String names the service in supervisor events.
func (s *RefreshService) String() string {
	return "refresh-service"
}
