// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

/*
Package api exposes the recommendation engine over HTTP with chi.

# Endpoints

	POST /addObject                                  replace an object's values
	POST /addRange                                   merge values into an object
	GET  /findMostCommonValues/{value}/{numValues}
	GET  /findMostCommonValuesForId/{id}/{numValues}
	GET  /findOverallMostCommonValues
	GET  /health/live
	GET  /health/ready
	GET  /metrics

Write bodies are {"id": ..., "values": [...]}; ids and values may be JSON
strings or integers. Read endpoints return a list of {"value", "score"}
inside the standard envelope (models.APIResponse).

# Errors

	400 INVALID_JSON         body is not valid JSON
	400 VALIDATION_ERROR     body or path parameter failed validation
	429 RATE_LIMITED         per-IP rate limit exceeded
	503 SERVICE_UNAVAILABLE  storage backend unreachable or circuit open
	504 TIMEOUT              request deadline exceeded
	500 INTERNAL_ERROR       anything else

# Middleware

Applied to every route in order: request id with logging context, real IP,
panic recovery, CORS (go-chi/cors), Prometheus request metrics. The
recommendation routes are additionally rate limited with go-chi/httprate.
*/
package api
