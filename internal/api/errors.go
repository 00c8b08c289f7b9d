// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package api

// Error codes of the API error envelope.
const (
	codeInvalidJSON        = "INVALID_JSON"
	codeValidation         = "VALIDATION_ERROR"
	codeRateLimited        = "RATE_LIMITED"
	codeServiceUnavailable = "SERVICE_UNAVAILABLE"
	codeTimeout            = "TIMEOUT"
	codeInternal           = "INTERNAL_ERROR"
	codeNotFound           = "NOT_FOUND"
	codeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
)
