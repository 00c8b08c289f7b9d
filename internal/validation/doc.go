// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared. It is used for HTTP
// request bodies and path parameters in internal/api and for the loaded
// configuration in internal/config.
//
// Field names in messages come from the json tag, falling back to the koanf
// tag and then the Go field name, so a request error reads "values is
// required" and a configuration error reads "top_limit must be at least 1".
//
// # Usage
//
//	type objectRequest struct {
//	    ID     recommend.Key   `json:"id" validate:"required"`
//	    Values []recommend.Key `json:"values" validate:"required,min=1,dive,required"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Custom Tags
//
//   - natssubject: a literal NATS subject (dot separated tokens, no
//     whitespace, no wildcards, no empty tokens)
package validation
