// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/dinnerroulette/internal/logging"
	"github.com/tomtom215/dinnerroulette/internal/models"
	"github.com/tomtom215/dinnerroulette/internal/roulette"
)

// Randomize spins the wheel for the calling user.
//
//	GET /api/randomize?category=quick&distance=short-drive
func (h *Handler) Randomize(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromQuery(r)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}

	res, err := h.engine.Spin(r.Context(), logging.UserFromContext(r.Context()), scope)
	if errors.Is(err, roulette.ErrEmptyPool) {
		respondError(w, http.StatusNotFound, emptyPoolMessage(scope))
		return
	}
	if err != nil {
		respondErr(w, r, err, "")
		return
	}

	respondJSON(w, http.StatusOK, models.SpinResponse{
		Success:    true,
		Restaurant: res.Restaurant,
		EntryID:    res.Entry.ID,
	})
}

// RandomizeStats previews the weighted pool without drawing.
func (h *Handler) RandomizeStats(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromQuery(r)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}

	stats, err := h.engine.Stats(r.Context(), scope)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, models.StatsResponse{Success: true, PoolStats: *stats})
}

// History lists recent spins, newest first. limit is clamped to [1, max].
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", h.history.Default)
	limit = min(max(limit, 1), h.history.Max)

	entries, err := h.engine.History(r.Context(), limit)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}

	out := make([]models.SpinHistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e)
	}
	respondJSON(w, http.StatusOK, models.HistoryResponse{
		Success: true,
		History: out,
		Count:   len(out),
	})
}

// MarkWent confirms the group went to a history entry's restaurant.
// Repeating the call succeeds.
func (h *Handler) MarkWent(w http.ResponseWriter, r *http.Request) {
	const notFound = "History entry not found"

	id, err := strconv.ParseInt(chi.URLParam(r, "entryID"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusNotFound, notFound)
		return
	}

	if _, err := h.engine.MarkWent(r.Context(), id); err != nil {
		respondErr(w, r, err, notFound)
		return
	}
	respondJSON(w, http.StatusOK, models.MessageResponse{Success: true, Message: "Marked as went!"})
}
