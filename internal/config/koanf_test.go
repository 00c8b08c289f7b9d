// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate runs the test from an empty directory with CONFIG_PATH pointing
// nowhere, so no stray config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	})

	t.Setenv(ConfigPathEnvVar, filepath.Join(tmpDir, "missing.yaml"))
	return tmpDir
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Store.Backend != BackendMemory {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, BackendMemory)
	}
	if cfg.Store.TopLimit != 10 {
		t.Errorf("Store.TopLimit = %d, want 10", cfg.Store.TopLimit)
	}
	if cfg.Server.Port != 3857 {
		t.Errorf("Server.Port = %d, want 3857", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Redis.KeyPrefix != "cooccur:" {
		t.Errorf("Redis.KeyPrefix = %q, want cooccur:", cfg.Redis.KeyPrefix)
	}
	if cfg.Redis.BreakerFailureThreshold != 5 {
		t.Errorf("Redis.BreakerFailureThreshold = %d, want 5", cfg.Redis.BreakerFailureThreshold)
	}
	if cfg.NATS.Enabled {
		t.Error("NATS.Enabled should be false by default")
	}
	if cfg.NATS.SubjectPrefix != "cooccur" {
		t.Errorf("NATS.SubjectPrefix = %q, want cooccur", cfg.NATS.SubjectPrefix)
	}
	if cfg.Refresh.Enabled {
		t.Error("Refresh.Enabled should be false by default")
	}
	if cfg.Refresh.Interval != time.Hour {
		t.Errorf("Refresh.Interval = %v, want 1h", cfg.Refresh.Interval)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() = %v, want nil", err)
	}
}

func TestServerConfigAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 3857, "0.0.0.0:3857"},
		{"", 8080, ":8080"},
		{"::1", 9000, "[::1]:9000"},
	}
	for _, tt := range tests {
		s := ServerConfig{Host: tt.host, Port: tt.port}
		if got := s.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"STORE_BACKEND", "store.backend"},
		{"TOP_LIMIT", "store.top_limit"},
		{"REDIS_ADDR", "redis.addr"},
		{"REDIS_BREAKER_TIMEOUT", "redis.breaker_timeout"},
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"NATS_ENABLED", "nats.enabled"},
		{"NATS_URL", "nats.url"},
		{"REFRESH_INTERVAL", "refresh.interval"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"store_backend", "store.backend"},
		{"PATH", ""},
		{"HOME", ""},
		{"UNKNOWN_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := isolate(t)

	t.Run("no config file exists", func(t *testing.T) {
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("store: {}"), 0o600); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(filepath.Join(tmpDir, "config.yaml"))

		if got := findConfigFile(); got != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", got)
		}
	})

	t.Run("CONFIG_PATH takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(customPath, []byte("store: {}"), 0o600); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, customPath)

		if got := findConfigFile(); got != customPath {
			t.Errorf("findConfigFile() = %q, want %q", got, customPath)
		}
	})
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("TOP_LIMIT", "25")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("NATS_URL", "nats://broker:4222")
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example,")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Store.Backend != BackendRedis {
		t.Errorf("Store.Backend = %q, want redis", cfg.Store.Backend)
	}
	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Errorf("Redis.Addr = %q, want redis.internal:6380", cfg.Redis.Addr)
	}
	if cfg.Store.TopLimit != 25 {
		t.Errorf("Store.TopLimit = %d, want 25", cfg.Store.TopLimit)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if !cfg.NATS.Enabled || cfg.NATS.URL != "nats://broker:4222" {
		t.Errorf("NATS = %+v, want enabled at nats://broker:4222", cfg.NATS)
	}
	if cfg.Refresh.Interval != 15*time.Minute {
		t.Errorf("Refresh.Interval = %v, want 15m", cfg.Refresh.Interval)
	}
	wantOrigins := []string{"http://a.example", "http://b.example"}
	if strings.Join(cfg.Security.CORSOrigins, "|") != strings.Join(wantOrigins, "|") {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, wantOrigins)
	}

	// Unset values keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Redis.KeyPrefix != "cooccur:" {
		t.Errorf("Redis.KeyPrefix = %q, want cooccur: (default)", cfg.Redis.KeyPrefix)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	tmpDir := isolate(t)

	content := `
server:
  port: 8088
store:
  backend: memory
  top_limit: 3
refresh:
  enabled: true
  interval: 2h
security:
  cors_origins:
    - https://app.example
logging:
  format: console
`
	path := filepath.Join(tmpDir, "cooccur.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8088 {
		t.Errorf("Server.Port = %d, want 8088", cfg.Server.Port)
	}
	if cfg.Store.TopLimit != 3 {
		t.Errorf("Store.TopLimit = %d, want 3", cfg.Store.TopLimit)
	}
	if !cfg.Refresh.Enabled || cfg.Refresh.Interval != 2*time.Hour {
		t.Errorf("Refresh = %+v, want enabled every 2h", cfg.Refresh)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "https://app.example" {
		t.Errorf("Security.CORSOrigins = %v, want [https://app.example]", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	tmpDir := isolate(t)

	path := filepath.Join(tmpDir, "cooccur.yaml")
	if err := os.WriteFile(path, []byte("store:\n  top_limit: 3\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("TOP_LIMIT", "7")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Store.TopLimit != 7 {
		t.Errorf("Store.TopLimit = %d, want 7 (env beats file)", cfg.Store.TopLimit)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown backend",
			env:     map[string]string{"STORE_BACKEND": "etcd"},
			wantErr: "backend must be one of",
		},
		{
			name:    "zero top limit",
			env:     map[string]string{"TOP_LIMIT": "0"},
			wantErr: "top_limit must be at least 1",
		},
		{
			name:    "port out of range",
			env:     map[string]string{"HTTP_PORT": "70000"},
			wantErr: "port must be at most 65535",
		},
		{
			name:    "bad log level",
			env:     map[string]string{"LOG_LEVEL": "verbose"},
			wantErr: "level must be one of",
		},
		{
			name:    "redis without port",
			env:     map[string]string{"STORE_BACKEND": "redis", "REDIS_ADDR": "redis"},
			wantErr: "REDIS_ADDR must be host:port",
		},
		{
			name:    "redis without addr",
			env:     map[string]string{"STORE_BACKEND": "redis", "REDIS_ADDR": ""},
			wantErr: "REDIS_ADDR is required",
		},
		{
			name:    "nats bad scheme",
			env:     map[string]string{"NATS_ENABLED": "true", "NATS_URL": "http://broker:4222"},
			wantErr: "NATS_URL is invalid",
		},
		{
			name:    "nats wildcard prefix",
			env:     map[string]string{"NATS_SUBJECT_PREFIX": "cooccur.*"},
			wantErr: "subject_prefix must be a literal NATS subject",
		},
		{
			name:    "refresh too frequent",
			env:     map[string]string{"REFRESH_ENABLED": "true", "REFRESH_INTERVAL": "10s"},
			wantErr: "REFRESH_INTERVAL must be at least",
		},
		{
			name:    "rate limit zero",
			env:     map[string]string{"RATE_LIMIT_REQUESTS": "0"},
			wantErr: "RATE_LIMIT_REQUESTS must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("LoadWithKoanf() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadWithKoanf() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadWithKoanfRateLimitDisabled(t *testing.T) {
	isolate(t)
	t.Setenv("RATE_LIMIT_REQUESTS", "0")
	t.Setenv("DISABLE_RATE_LIMIT", "true")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if !cfg.Security.RateLimitDisabled {
		t.Error("Security.RateLimitDisabled = false, want true")
	}
}

func TestConfigString(t *testing.T) {
	cfg := defaultConfig()
	cfg.Redis.Password = "hunter2"

	s := cfg.String()
	if strings.Contains(s, "hunter2") {
		t.Errorf("String() = %q, must not contain the redis password", s)
	}
	if !strings.Contains(s, "backend=memory") {
		t.Errorf("String() = %q, want backend=memory", s)
	}
}
