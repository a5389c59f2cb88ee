// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/dinnerroulette/internal/backup"
	"github.com/tomtom215/dinnerroulette/internal/models"
)

type restoreRequest struct {
	BackupFile string `json:"backup_file"`
}

// CreateBackup snapshots the catalog.
func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		respondErr(w, r, backup.ErrDisabled, "")
		return
	}

	res, err := h.backups.CreateBackup(r.Context())
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, models.BackupResponse{
		Success:     true,
		Message:     "Backup created successfully",
		File:        res.File,
		Restaurants: res.Restaurants,
		Categories:  res.Categories,
	})
}

// ListBackups returns the backup files, newest first.
func (h *Handler) ListBackups(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		respondErr(w, r, backup.ErrDisabled, "")
		return
	}

	infos, err := h.backups.ListBackups()
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	out := make([]models.BackupInfo, len(infos))
	for i, info := range infos {
		out[i] = models.BackupInfo{Name: info.Name, Size: info.Size, CreatedAt: info.CreatedAt}
	}
	respondJSON(w, http.StatusOK, models.BackupsResponse{Success: true, Backups: out, Count: len(out)})
}

// Restore loads a backup into the catalog. Without a body the latest
// backup is used.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		respondErr(w, r, backup.ErrDisabled, "")
		return
	}

	var req restoreRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errBodyRequired) {
		respondErr(w, r, err, "")
		return
	}
	// older clients send the path relative to the working directory
	name := strings.TrimPrefix(strings.TrimSpace(req.BackupFile), "backups/")

	res, err := h.backups.Restore(r.Context(), name)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, models.BackupResponse{
		Success:     true,
		Message:     fmt.Sprintf("Restored %d restaurants and %d categories", res.RestaurantsRestored, res.CategoriesRestored),
		File:        res.File,
		Restaurants: res.RestaurantsRestored,
		Categories:  res.CategoriesRestored,
	})
}
