// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

type mockRefresher struct {
	calls atomic.Int32
	err   error
}

func (m *mockRefresher) RefreshAll(context.Context) (int, error) {
	m.calls.Add(1)
	return 7, m.err
}

func TestRefreshService_Interface(t *testing.T) {
	var _ suture.Service = (*RefreshService)(nil)
}

func TestNewRefreshService_Defaults(t *testing.T) {
	svc := NewRefreshService(&mockRefresher{}, RefreshServiceConfig{}, zerolog.Nop())

	if svc.config.Interval != defaultRefreshInterval {
		t.Errorf("Interval = %v, want %v", svc.config.Interval, defaultRefreshInterval)
	}
	if svc.config.Timeout != defaultRefreshInterval {
		t.Errorf("Timeout = %v, want Interval", svc.config.Timeout)
	}
	if svc.String() != "refresh-service" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestRefreshService_RunOnStart(t *testing.T) {
	refresher := &mockRefresher{}
	svc := NewRefreshService(refresher, RefreshServiceConfig{
		Interval:   time.Hour,
		RunOnStart: true,
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
	}
	if refresher.calls.Load() != 1 {
		t.Errorf("RefreshAll called %d times, want 1", refresher.calls.Load())
	}
}

func TestRefreshService_Ticker(t *testing.T) {
	refresher := &mockRefresher{err: errors.New("redis down")}
	svc := NewRefreshService(refresher, RefreshServiceConfig{
		Interval: 10 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// Failed runs must not stop the service.
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
	}
	if refresher.calls.Load() < 2 {
		t.Errorf("RefreshAll called %d times, want at least 2", refresher.calls.Load())
	}
}
