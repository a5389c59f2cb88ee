// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/dinnerroulette/internal/logging"
	"github.com/tomtom215/dinnerroulette/internal/models"
)

const healthPingTimeout = 2 * time.Second

// Health reports whether storage answers. Degraded storage answers 503 so
// load balancers take the instance out of rotation.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:  "healthy",
		Storage: "ok",
		Uptime:  time.Since(h.startTime).Seconds(),
	}
	status := http.StatusOK

	if h.health == nil {
		resp.Storage = "unknown"
	} else {
		resp.Backend = h.health.Backend()
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := h.health.Ping(ctx); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Storage health check failed")
			resp.Status = "degraded"
			resp.Storage = "error"
			status = http.StatusServiceUnavailable
		}
	}
	respondJSON(w, status, resp)
}
