// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

/*
Package models defines the wire types shared by the HTTP API and the NATS
ingestion subscriber.

  - APIResponse, Metadata, APIError: the response envelope of every HTTP endpoint
  - ObjectRequest: the body of addObject/addRange, also the NATS payload
  - IngestReply: the reply sent to NATS requesters
  - HealthStatus: the readiness probe payload

Object ids and values decode from JSON strings or integers through
recommend.Key, so {"id": 7} and {"id": "7"} address the same object.
*/
package models
