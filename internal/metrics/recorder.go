// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package metrics

import (
	"time"

	"github.com/tomtom215/cooccur/internal/recommend"
)

// EngineRecorder reports recommend.Engine instrumentation to Prometheus.
//
//	engine, err := recommend.NewEngine(store, cfg, logger,
//	    recommend.WithRecorder(metrics.EngineRecorder{}))
type EngineRecorder struct{}

var _ recommend.Recorder = EngineRecorder{}

// ObserveOperation implements recommend.Recorder.
func (EngineRecorder) ObserveOperation(op string, duration time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	EngineOperationsTotal.WithLabelValues(op, status).Inc()
	EngineOperationDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// ObserveRecompute implements recommend.Recorder.
func (EngineRecorder) ObserveRecompute(trigger string) {
	RecommendationRecomputes.WithLabelValues(trigger).Inc()
}
