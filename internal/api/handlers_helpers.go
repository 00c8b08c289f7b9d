// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cooccur/internal/logging"
	"github.com/tomtom215/cooccur/internal/models"
	"github.com/tomtom215/cooccur/internal/recommend"
	"github.com/tomtom215/cooccur/internal/validation"
)

// maxBodyBytes bounds write request bodies.
const maxBodyBytes = 1 << 20

// sanitizeLogValue escapes control characters so request data cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondSuccess(w http.ResponseWriter, data interface{}, start time.Time) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status:   models.StatusError,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondEngineError maps an engine error to a status code. Backend failures
// are logged with the request context; invalid arguments are not.
func respondEngineError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	case errors.Is(err, recommend.ErrBackendUnavailable):
		logging.Ctx(r.Context()).Warn().Str("op", op).Str("error", sanitizeLogValue(err.Error())).Msg("storage backend unavailable")
		respondError(w, http.StatusServiceUnavailable, codeServiceUnavailable, "Storage backend unavailable", nil)
		return
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, codeTimeout, "Request timed out", nil)
		return
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the response.
		return
	}

	logging.Ctx(r.Context()).Error().Str("op", op).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	respondError(w, http.StatusInternalServerError, codeInternal, "Internal server error", nil)
}

// validateRequest returns nil when v passes its validate tags.
func validateRequest(v interface{}) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	apiErr := verr.ToAPIError()
	return &models.APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}
}

// decodeObjectRequest reads and validates a write body. It writes the error
// response itself and reports whether the handler should continue.
func decodeObjectRequest(w http.ResponseWriter, r *http.Request) (models.ObjectRequest, bool) {
	var req models.ObjectRequest

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidJSON, "Invalid request body: "+err.Error(), nil)
		return req, false
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return req, false
	}
	return req, true
}

// keyParam returns the path parameter name as a key. chi matches on the raw
// path when the request needed escaping beyond the default (an encoded
// slash, say), and only then is the parameter still escaped.
func keyParam(r *http.Request, name string) (recommend.Key, error) {
	value := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(value)
		if err != nil {
			return "", fmt.Errorf("%s is not a valid path segment", name)
		}
		value = unescaped
	}
	if value == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return recommend.Key(value), nil
}

// limitParam parses and validates the numValues path parameter.
func limitParam(r *http.Request) (int, *models.APIError) {
	n, err := strconv.Atoi(chi.URLParam(r, "numValues"))
	if err != nil {
		return 0, &models.APIError{
			Code:    codeValidation,
			Message: "numValues must be an integer",
			Details: map[string]interface{}{"field": "numValues"},
		}
	}
	params := models.LimitParams{NumValues: n}
	return n, validateRequest(&params)
}
