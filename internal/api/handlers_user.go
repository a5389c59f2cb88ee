// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/dinnerroulette/internal/auth"
	"github.com/tomtom215/dinnerroulette/internal/logging"
	"github.com/tomtom215/dinnerroulette/internal/models"
)

type registerRequest struct {
	FirstName *string `json:"first_name"`
}

// UserCheck reports whether the caller carries a valid identity cookie and,
// for a registered caller, how long their spin cooldown has left.
func (h *Handler) UserCheck(w http.ResponseWriter, r *http.Request) {
	user := logging.UserFromContext(r.Context())
	resp := models.UserResponse{
		Success: true,
		Exists:  user != "",
		User:    user,
	}
	if user != "" {
		remaining, err := h.engine.CooldownRemaining(r.Context(), user)
		if err != nil {
			respondErr(w, r, err, "")
			return
		}
		resp.CooldownSecondsRemaining = remaining
	}
	respondJSON(w, http.StatusOK, resp)
}

// UserRegister validates a first name and binds it to the identity cookie.
func (h *Handler) UserRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := decodeJSON(w, r, &req)
	if err == nil && req.FirstName == nil {
		err = errBodyRequired
	}
	if errors.Is(err, errBodyRequired) {
		respondError(w, http.StatusBadRequest, "First name is required")
		return
	}
	if err != nil {
		respondErr(w, r, err, "")
		return
	}

	name, err := auth.NormalizeName(*req.FirstName)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := h.identity.SetCookie(w, name); err != nil {
		respondErr(w, r, err, "")
		return
	}

	logging.Ctx(r.Context()).Info().Str("registered_user", name).Msg("User registered")
	respondJSON(w, http.StatusOK, models.UserResponse{
		Success: true,
		Exists:  true,
		User:    name,
		Message: fmt.Sprintf("Welcome, %s!", name),
	})
}

// UserStats counts the restaurants a user added and removed.
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	name, err := auth.NormalizeName(chi.URLParam(r, "username"))
	if err != nil {
		respondErr(w, r, err, "")
		return
	}

	stats, err := h.catalog.UserStats(r.Context(), name)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, models.UserStatsResponse{Success: true, UserStats: *stats})
}
