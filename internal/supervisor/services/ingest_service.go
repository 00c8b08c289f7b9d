// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package services

import (
	"context"
	"fmt"
	"time"
)

// IngestRunner is the Start/Shutdown lifecycle of *ingest.Subscriber.
type IngestRunner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// IngestService adapts an IngestRunner to suture.Service.
//
// Start failures are returned so suture retries the connection with
// backoff. A connection that closes on its own (reconnects exhausted) is
// reported as a failure as well.
type IngestService struct {
	runner          IngestRunner
	shutdownTimeout time.Duration
	pollInterval    time.Duration
}

// NewIngestService wraps runner. A non-positive shutdownTimeout means 10s.
func NewIngestService(runner IngestRunner, shutdownTimeout time.Duration) *IngestService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &IngestService{
		runner:          runner,
		shutdownTimeout: shutdownTimeout,
		pollInterval:    time.Second,
	}
}

// Serve starts the runner and blocks until ctx is canceled or the runner
// stops.
func (s *IngestService) Serve(ctx context.Context) error {
	if err := s.runner.Start(ctx); err != nil {
		return fmt.Errorf("ingest start failed: %w", err)
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			s.runner.Shutdown(shutdownCtx)
			cancel()
			return ctx.Err()

		case <-ticker.C:
			if !s.runner.IsRunning() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
				s.runner.Shutdown(shutdownCtx)
				cancel()
				return fmt.Errorf("ingest connection closed")
			}
		}
	}
}

// String names the service in supervisor events.
func (s *IngestService) String() string {
	return "ingest-service"
}
