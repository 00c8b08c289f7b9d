// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Redis    RedisConfig    `koanf:"redis"`
	NATS     NATSConfig     `koanf:"nats"`
	Refresh  RefreshConfig  `koanf:"refresh"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// Addr returns host:port for http.Server.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// StoreConfig selects the storage backend.
type StoreConfig struct {
	// Backend is memory (single process, lost on restart) or redis.
	Backend string `koanf:"backend" validate:"oneof=memory redis"`

	// TopLimit bounds the overall most-common-values structure.
	TopLimit int `koanf:"top_limit" validate:"min=1,max=1000"`
}

// RedisConfig holds the Redis backend settings. Only read when
// Store.Backend is redis.
type RedisConfig struct {
	Addr         string        `koanf:"addr"`
	Username     string        `koanf:"username"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db" validate:"gte=0"`
	KeyPrefix    string        `koanf:"key_prefix"`
	DialTimeout  time.Duration `koanf:"dial_timeout" validate:"gte=0"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`
	PoolSize     int           `koanf:"pool_size" validate:"gte=0"`

	// ScanCount is the COUNT hint for SSCAN over the node index.
	ScanCount int64 `koanf:"scan_count" validate:"gte=1"`

	// Circuit breaker. The breaker opens after BreakerFailureThreshold
	// consecutive failures and half-opens after BreakerTimeout.
	BreakerMaxRequests      uint32        `koanf:"breaker_max_requests" validate:"gte=1"`
	BreakerInterval         time.Duration `koanf:"breaker_interval" validate:"gte=0"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold" validate:"gte=1"`
}

// NATSConfig holds the optional ingestion subscriber settings.
type NATSConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`

	// SubjectPrefix is the first token(s) of the ingest subjects:
	// {prefix}.objects.add and {prefix}.objects.range.
	SubjectPrefix string `koanf:"subject_prefix" validate:"natssubject"`

	// QueueGroup load-balances messages across replicas. Empty means every
	// replica receives every message.
	QueueGroup string `koanf:"queue_group"`

	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait" validate:"gte=0"`
}

// RefreshConfig controls the periodic full recomputation of cached
// recommendation lists.
type RefreshConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`

	// RunOnStart performs one refresh as soon as the service starts.
	RunOnStart bool `koanf:"run_on_start"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`

	// Format is json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	Caller bool `koanf:"caller"`
}

// String returns a one-line summary safe for logging (no credentials).
func (c *Config) String() string {
	return fmt.Sprintf("backend=%s top_limit=%d http=%s nats=%t refresh=%t",
		c.Store.Backend, c.Store.TopLimit, c.Server.Addr(), c.NATS.Enabled, c.Refresh.Enabled)
}
