// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package redisstore

import (
	"fmt"
	"time"

	"github.com/tomtom215/cooccur/internal/recommend"
)

// Config configures the Redis store.
type Config struct {
	Addr     string
	Username string
	Password string
	DB       int

	// KeyPrefix namespaces every key written by the store.
	KeyPrefix string

	// TopLimit bounds the overall top-K sorted set.
	TopLimit int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	// ScanCount is the COUNT hint for SSCAN during full scans.
	ScanCount int64

	Breaker BreakerConfig
}

// BreakerConfig configures the circuit breaker wrapped around every call.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval after which closed-state counts are cleared.
	Interval time.Duration
	// Timeout before an open breaker goes half-open.
	Timeout time.Duration
	// FailureThreshold consecutive failures trip the breaker.
	FailureThreshold uint32
}

// DefaultConfig returns a configuration for a local Redis.
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		KeyPrefix:    "cooccur:",
		TopLimit:     recommend.DefaultTopLimit,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		ScanCount:    500,
		Breaker: BreakerConfig{
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.TopLimit < 1 {
		return fmt.Errorf("top_limit must be positive, got %d", c.TopLimit)
	}
	if c.ScanCount < 1 {
		c.ScanCount = 500
	}
	if c.Breaker.FailureThreshold == 0 {
		c.Breaker.FailureThreshold = 5
	}
	return nil
}
