// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cooccur/internal/logging"
)

// AddObject replaces the values of an object.
//
// POST /addObject {"id": "1", "values": ["a", "b"]}
func (h *Handler) AddObject(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := decodeObjectRequest(w, r)
	if !ok {
		return
	}

	if err := h.engine.AddObject(r.Context(), req.ID, req.Values); err != nil {
		respondEngineError(w, r, "add_object", err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("id", sanitizeLogValue(req.ID.String())).
		Int("values", len(req.Values)).
		Msg("object added")
	respondSuccess(w, map[string]interface{}{"id": req.ID, "values": len(req.Values)}, start)
}

// AddRange merges values into an object, creating it if needed.
//
// POST /addRange {"id": "1", "values": ["c"]}
func (h *Handler) AddRange(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := decodeObjectRequest(w, r)
	if !ok {
		return
	}

	if err := h.engine.AddRange(r.Context(), req.ID, req.Values); err != nil {
		respondEngineError(w, r, "add_range", err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("id", sanitizeLogValue(req.ID.String())).
		Int("values", len(req.Values)).
		Msg("range added")
	respondSuccess(w, map[string]interface{}{"id": req.ID, "values": len(req.Values)}, start)
}

// FindMostCommonValues returns the values that most often appear together
// with {value}.
//
// GET /findMostCommonValues/{value}/{numValues}
func (h *Handler) FindMostCommonValues(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	value, err := keyParam(r, "value")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), map[string]interface{}{"field": "value"})
		return
	}
	n, apiErr := limitParam(r)
	if apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	recs, err := h.engine.MostCommonRecommendations(r.Context(), value, n)
	if err != nil {
		respondEngineError(w, r, "find_most_common_values", err)
		return
	}
	respondSuccess(w, recs, start)
}

// FindMostCommonValuesForID returns values recommended for object {id},
// excluding the values it already has.
//
// GET /findMostCommonValuesForId/{id}/{numValues}
func (h *Handler) FindMostCommonValuesForID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := keyParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), map[string]interface{}{"field": "id"})
		return
	}
	n, apiErr := limitParam(r)
	if apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	recs, err := h.engine.MostCommonRecommendationsForID(r.Context(), id, n)
	if err != nil {
		respondEngineError(w, r, "find_most_common_values_for_id", err)
		return
	}
	respondSuccess(w, recs, start)
}

// FindOverallMostCommonValues returns the globally most frequent values.
//
// GET /findOverallMostCommonValues
func (h *Handler) FindOverallMostCommonValues(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	recs, err := h.engine.OverallRecommendations(r.Context())
	if err != nil {
		respondEngineError(w, r, "find_overall_most_common_values", err)
		return
	}
	respondSuccess(w, recs, start)
}
