// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/dinnerroulette/internal/models"
	"github.com/tomtom215/dinnerroulette/internal/places"
)

const maxPlaceResults = 10

// SearchPlaces runs a text search against the places provider.
//
//	GET /api/places/search?q=pho&limit=5
func (h *Handler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	if h.places == nil {
		respondErr(w, r, places.ErrDisabled, "")
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(q)) < 2 {
		respondError(w, http.StatusBadRequest, "Search query must be at least 2 characters")
		return
	}
	limit := min(max(getIntParam(r, "limit", places.DefaultMaxResults), 1), maxPlaceResults)

	results, err := h.places.Search(r.Context(), q, limit)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	if results == nil {
		results = []models.PlaceSummary{}
	}
	respondJSON(w, http.StatusOK, models.PlacesSearchResponse{Success: true, Results: results})
}

// PlaceDetails returns contact and travel details for a place id.
func (h *Handler) PlaceDetails(w http.ResponseWriter, r *http.Request) {
	if h.places == nil {
		respondErr(w, r, places.ErrDisabled, "")
		return
	}

	d, err := h.places.Details(r.Context(), chi.URLParam(r, "placeID"))
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, models.PlaceDetailsResponse{Success: true, Name: d.Name, Place: d.Info})
}
