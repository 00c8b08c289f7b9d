// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope of every HTTP response.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": [{"value": "b", "score": 2}, {"value": "c", "score": 1}],
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 1}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {"code": "VALIDATION_ERROR", "message": "id is required", "details": {"field": "id"}},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is a machine readable code plus a human readable message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the readiness payload.
type HealthStatus struct {
	Status         string  `json:"status"` // ready or not_ready
	Backend        string  `json:"backend"`
	StoreReachable bool    `json:"store_reachable"`
	Uptime         float64 `json:"uptime"`
}
