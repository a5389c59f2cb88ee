// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package api

import (
	"context"
	"time"

	"github.com/tomtom215/dinnerroulette/internal/auth"
	"github.com/tomtom215/dinnerroulette/internal/backup"
	"github.com/tomtom215/dinnerroulette/internal/catalog"
	"github.com/tomtom215/dinnerroulette/internal/models"
	"github.com/tomtom215/dinnerroulette/internal/places"
	"github.com/tomtom215/dinnerroulette/internal/roulette"
)

// BackupService is the subset of *backup.Manager the handlers use.
type BackupService interface {
	CreateBackup(ctx context.Context) (*backup.Result, error)
	ListBackups() ([]backup.Info, error)
	Restore(ctx context.Context, name string) (*backup.RestoreResult, error)
}

// PlacesService is the subset of *places.Client the handlers use.
type PlacesService interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.PlaceSummary, error)
	Details(ctx context.Context, placeID string) (*places.Details, error)
}

// HealthChecker reports storage health.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Backend() string
}

// HistoryLimits bounds the history page size.
type HistoryLimits struct {
	Default int
	Max     int
}

// Handler holds the dependencies of every endpoint.
type Handler struct {
	engine   *roulette.Engine
	catalog  *catalog.Service
	identity *auth.Identity
	backups  BackupService
	places   PlacesService
	health   HealthChecker
	history  HistoryLimits

	startTime time.Time
}

// NewHandler creates a handler. backups, places and health may be nil; the
// matching endpoints then report the feature as unavailable.
func NewHandler(engine *roulette.Engine, cat *catalog.Service, identity *auth.Identity, backups BackupService, placeSvc PlacesService, health HealthChecker, history HistoryLimits) *Handler {
	if history.Default <= 0 {
		history.Default = 20
	}
	if history.Max < history.Default {
		history.Max = max(history.Default, 50)
	}
	return &Handler{
		engine:    engine,
		catalog:   cat,
		identity:  identity,
		backups:   backups,
		places:    placeSvc,
		health:    health,
		history:   history,
		startTime: time.Now(),
	}
}
