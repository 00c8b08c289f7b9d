// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cooccur/internal/config"
	"github.com/tomtom215/cooccur/internal/recommend"
	"github.com/tomtom215/cooccur/internal/recommend/memory"
	"github.com/tomtom215/cooccur/internal/recommend/redisstore"
)

// initStore opens the configured backend.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (recommend.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		logger.Info().Int("top_limit", cfg.Store.TopLimit).Msg("using in-memory store")
		return memory.New(cfg.Store.TopLimit), nil

	case config.BackendRedis:
		store, err := redisstore.New(ctx, redisConfig(cfg), logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// redisConfig maps the server configuration onto redisstore.Config.
func redisConfig(cfg *config.Config) redisstore.Config {
	r := cfg.Redis
	return redisstore.Config{
		Addr:         r.Addr,
		Username:     r.Username,
		Password:     r.Password,
		DB:           r.DB,
		KeyPrefix:    r.KeyPrefix,
		TopLimit:     cfg.Store.TopLimit,
		DialTimeout:  r.DialTimeout,
		ReadTimeout:  r.ReadTimeout,
		WriteTimeout: r.WriteTimeout,
		PoolSize:     r.PoolSize,
		ScanCount:    r.ScanCount,
		Breaker: redisstore.BreakerConfig{
			MaxRequests:      r.BreakerMaxRequests,
			Interval:         r.BreakerInterval,
			Timeout:          r.BreakerTimeout,
			FailureThreshold: r.BreakerFailureThreshold,
		},
	}
}
