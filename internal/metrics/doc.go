// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

/*
Package metrics provides the Prometheus collectors of the server.

Collectors are registered with the default registry through promauto and
served by internal/api at /metrics:

	curl http://localhost:3857/metrics

# Available Metrics

Engine:
  - cooccur_engine_operations_total{operation,status}
  - cooccur_engine_operation_duration_seconds{operation}
  - cooccur_recommendation_recomputes_total{trigger}

Storage:
  - cooccur_store_errors_total{backend,operation}
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

Refresh:
  - cooccur_refresh_values_total
  - cooccur_refresh_duration_seconds
  - cooccur_refresh_errors_total
  - cooccur_refresh_last_success_timestamp_seconds

Ingest:
  - cooccur_ingest_messages_total{subject,status}
  - cooccur_ingest_processing_duration_seconds

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

The endpoint label is the chi route pattern, never the raw path, so value
and id path parameters do not create new series.

# Engine Instrumentation

internal/recommend does not import this package. EngineRecorder implements
recommend.Recorder and is passed to recommend.NewEngine with
recommend.WithRecorder.

# Example PromQL

	# write error ratio
	sum(rate(cooccur_engine_operations_total{status="error",operation=~"add_.*"}[5m]))
	  / sum(rate(cooccur_engine_operations_total{operation=~"add_.*"}[5m]))

	# recomputations per write
	sum(rate(cooccur_recommendation_recomputes_total[5m]))
	  / sum(rate(cooccur_engine_operations_total{operation=~"add_.*"}[5m]))
*/
package metrics
