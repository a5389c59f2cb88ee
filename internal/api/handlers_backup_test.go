// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/tomtom215/dinnerroulette/internal/models"
)

func TestBackupAndRestore(t *testing.T) {
	s := newTestServer(t, serverOptions{backups: true}, tuesdayCatalog()...)

	expectStatus(t, s.do(http.MethodPost, "/api/backup", "", ""), http.StatusUnauthorized)

	rec := s.do(http.MethodPost, "/api/backup", "", "Alice")
	expectStatus(t, rec, http.StatusOK)
	created := decode[models.BackupResponse](t, rec)
	if created.File != "restaurants_backup_20260303_180000.json" || created.Restaurants != 3 {
		t.Errorf("backup = %+v", created)
	}

	s.clock.Advance(time.Minute)
	expectStatus(t, s.do(http.MethodPost, "/api/backup", "", "Alice"), http.StatusOK)

	list := decode[models.BackupsResponse](t, s.do(http.MethodGet, "/api/backups", "", "Alice"))
	if list.Count != 2 || list.Backups[0].Name != "restaurants_backup_20260303_180100.json" {
		t.Errorf("backups = %+v", list.Backups)
	}

	expectStatus(t, s.do(http.MethodDelete, "/api/restaurants/1", "", "Alice"), http.StatusOK)

	rec = s.do(http.MethodPost, "/api/restore", "", "Alice")
	expectStatus(t, rec, http.StatusOK)
	restored := decode[models.BackupResponse](t, rec)
	if restored.Restaurants != 3 || restored.Message != "Restored 3 restaurants and 0 categories" {
		t.Errorf("restore = %+v", restored)
	}

	a, err := s.store.GetRestaurant(context.Background(), "1")
	if err != nil || !a.Active {
		t.Errorf("restaurant 1 after restore = %+v, %v", a, err)
	}

	// path-prefixed names from older clients resolve to the same file
	expectStatus(t, s.do(http.MethodPost, "/api/restore",
		`{"backup_file":"backups/restaurants_backup_20260303_180000.json"}`, "Alice"), http.StatusOK)
}

func TestRestore_Rejects(t *testing.T) {
	s := newTestServer(t, serverOptions{backups: true}, tuesdayCatalog()...)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"traversal", `{"backup_file":"../../etc/passwd"}`, http.StatusBadRequest},
		{"not a backup", `{"backup_file":"config.yaml"}`, http.StatusBadRequest},
		{"missing file", `{"backup_file":"restaurants_backup_20990101_000000.json"}`, http.StatusNotFound},
		{"no latest yet", `{}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, s.do(http.MethodPost, "/api/restore", tt.body, "Alice"), tt.status)
		})
	}
}

func TestBackup_Disabled(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	for _, tt := range []struct{ method, path string }{
		{http.MethodPost, "/api/backup"},
		{http.MethodGet, "/api/backups"},
		{http.MethodPost, "/api/restore"},
	} {
		expectError(t, s.do(tt.method, tt.path, "", "Alice"), http.StatusServiceUnavailable, "Backups are not enabled")
	}
}
