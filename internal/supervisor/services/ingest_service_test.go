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

	"github.com/thejerf/suture/v4"
)

type mockIngestRunner struct {
	startErr      error
	running       atomic.Bool
	startCount    atomic.Int32
	shutdownCount atomic.Int32
}

func (m *mockIngestRunner) Start(context.Context) error {
	m.startCount.Add(1)
	if m.startErr != nil {
		return m.startErr
	}
	m.running.Store(true)
	return nil
}

func (m *mockIngestRunner) Shutdown(context.Context) {
	m.shutdownCount.Add(1)
	m.running.Store(false)
}

func (m *mockIngestRunner) IsRunning() bool {
	return m.running.Load()
}

func newTestIngestService(runner IngestRunner) *IngestService {
	svc := NewIngestService(runner, time.Second)
	svc.pollInterval = 10 * time.Millisecond
	return svc
}

func TestIngestService_Interface(t *testing.T) {
	var _ suture.Service = (*IngestService)(nil)
}

func TestIngestService_StartError(t *testing.T) {
	runner := &mockIngestRunner{startErr: errors.New("connection refused")}
	svc := newTestIngestService(runner)

	err := svc.Serve(context.Background())
	if !errors.Is(err, runner.startErr) {
		t.Errorf("Serve() error = %v, want wrapped start error", err)
	}
	if runner.shutdownCount.Load() != 0 {
		t.Error("Shutdown should not be called when Start fails")
	}
}

func TestIngestService_CancelShutsDown(t *testing.T) {
	runner := &mockIngestRunner{}
	svc := newTestIngestService(runner)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
	}
	if runner.shutdownCount.Load() != 1 {
		t.Errorf("Shutdown called %d times, want 1", runner.shutdownCount.Load())
	}
}

func TestIngestService_ConnectionLost(t *testing.T) {
	runner := &mockIngestRunner{}
	svc := newTestIngestService(runner)

	done := make(chan error, 1)
	go func() { done <- svc.Serve(context.Background()) }()

	deadline := time.Now().Add(time.Second)
	for !runner.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	runner.running.Store(false)

	select {
	case err := <-done:
		if err == nil {
			t.Error("Serve() should fail when the connection closes")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not notice the closed connection")
	}
	if svc.String() != "ingest-service" {
		t.Errorf("String() = %q", svc.String())
	}
}
