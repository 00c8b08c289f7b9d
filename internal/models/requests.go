// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package models

import "github.com/tomtom215/cooccur/internal/recommend"

// MaxObjectValues bounds the values of a single write request.
const MaxObjectValues = 10000

// ObjectRequest is the body of POST /addObject and POST /addRange, and the
// payload of the NATS ingest subjects.
//
//	{"id": "user-1", "values": ["a", "b", 42]}
type ObjectRequest struct {
	ID     recommend.Key   `json:"id" validate:"required"`
	Values []recommend.Key `json:"values" validate:"required,min=1,max=10000,dive,required"`
}

// IngestReply is published to the reply subject of an ingest request.
type IngestReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// LimitParams holds the numValues path parameter.
type LimitParams struct {
	NumValues int `json:"numValues" validate:"min=1,max=1000"`
}
