// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/cooccur/internal/logging"
	"github.com/tomtom215/cooccur/internal/models"
)

// HealthLive reports that the process is up, regardless of the backend.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// HealthReady reports whether the storage backend answers. It reads the
// overall top-K, the cheapest query every backend serves. Returns 503 when
// the backend is unreachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	_, err := h.engine.OverallRecommendations(ctx)
	health := models.HealthStatus{
		Status:         "ready",
		Backend:        h.backend,
		StoreReachable: err == nil,
		Uptime:         time.Since(h.startTime).Seconds(),
	}

	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("backend", h.backend).Msg("readiness check failed")
		health.Status = "not_ready"
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   models.StatusError,
			Data:     health,
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error: &models.APIError{
				Code:    codeServiceUnavailable,
				Message: "Storage backend unavailable",
			},
		})
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   models.StatusSuccess,
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}
