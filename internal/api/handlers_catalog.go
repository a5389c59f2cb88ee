// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/dinnerroulette/internal/catalog"
	"github.com/tomtom215/dinnerroulette/internal/logging"
	"github.com/tomtom215/dinnerroulette/internal/models"
)

const msgRestaurantNotFound = "Restaurant not found"

type categoryRequest struct {
	Name string `json:"name"`
}

// ListRestaurants returns active restaurants, optionally filtered.
func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromQuery(r)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}

	list, err := h.catalog.List(r.Context(), scope)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, models.RestaurantsResponse{
		Success:     true,
		Restaurants: list,
		Count:       len(list),
		Filters:     scope,
	})
}

// GetRestaurant returns one restaurant, including removed ones.
func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err, msgRestaurantNotFound)
		return
	}
	respondJSON(w, http.StatusOK, models.RestaurantResponse{Success: true, Restaurant: rest})
}

// CreateRestaurant adds a restaurant on behalf of the caller.
func (h *Handler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var in catalog.CreateInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondErr(w, r, err, "")
		return
	}

	rest, err := h.catalog.Create(r.Context(), logging.UserFromContext(r.Context()), in)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusCreated, models.RestaurantResponse{Success: true, Restaurant: rest})
}

// UpdateRestaurant applies a partial update.
func (h *Handler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	var in catalog.UpdateInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondErr(w, r, err, "")
		return
	}

	rest, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		respondErr(w, r, err, msgRestaurantNotFound)
		return
	}
	respondJSON(w, http.StatusOK, models.RestaurantResponse{Success: true, Restaurant: rest})
}

// DeleteRestaurant soft-deletes a restaurant.
func (h *Handler) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	_, err := h.catalog.Delete(r.Context(), logging.UserFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err, msgRestaurantNotFound)
		return
	}
	respondJSON(w, http.StatusOK, models.MessageResponse{Success: true, Message: "Restaurant removed successfully"})
}

// ListCategories returns built-in and custom categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.Categories(r.Context())
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, models.CategoriesResponse{
		Success:    true,
		Categories: cats.All,
		Default:    cats.Default,
		Custom:     cats.Custom,
	})
}

// AddCategory adds a custom category.
func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}

	name, err := h.catalog.AddCategory(r.Context(), req.Name)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusCreated, models.MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Added category '%s'", name),
	})
}

// ListDistances returns the distance buckets, closest first.
func (h *Handler) ListDistances(w http.ResponseWriter, r *http.Request) {
	opts := make([]models.DistanceOption, len(models.Distances))
	for i, d := range models.Distances {
		opts[i] = models.DistanceOption{Value: d, Label: d.Label()}
	}
	respondJSON(w, http.StatusOK, models.DistancesResponse{
		Success:   true,
		Distances: opts,
		Default:   models.DefaultDistanceHint,
	})
}
