// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/dinnerroulette/internal/api"
	"github.com/tomtom215/dinnerroulette/internal/auth"
	"github.com/tomtom215/dinnerroulette/internal/backup"
	"github.com/tomtom215/dinnerroulette/internal/catalog"
	"github.com/tomtom215/dinnerroulette/internal/config"
	"github.com/tomtom215/dinnerroulette/internal/logging"
	"github.com/tomtom215/dinnerroulette/internal/places"
	"github.com/tomtom215/dinnerroulette/internal/roulette"
	"github.com/tomtom215/dinnerroulette/internal/store"
	"github.com/tomtom215/dinnerroulette/internal/supervisor"
	"github.com/tomtom215/dinnerroulette/internal/supervisor/services"
	ws "github.com/tomtom215/dinnerroulette/internal/websocket"
)

// app holds the wired components of one server process.
type app struct {
	cfg     *config.Config
	store   store.Store
	places  *places.Client
	hub     *ws.Hub
	backups *backup.Manager
	server  *http.Server
}

// newApp opens storage and wires every component. Nothing runs until the
// services are added to a supervisor tree.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	loc, err := cfg.Roulette.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Roulette.Timezone, err)
	}

	st, err := store.Open(ctx, store.Config{
		Backend:        cfg.Storage.Backend,
		BadgerPath:     cfg.Storage.BadgerPath,
		BadgerInMemory: cfg.Storage.BadgerInMemory,
		RedisAddr:      cfg.Storage.RedisAddr,
		RedisPassword:  cfg.Storage.RedisPassword,
		RedisDB:        cfg.Storage.RedisDB,
		RedisKeyPrefix: cfg.Storage.RedisKeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	logging.Info().Str("backend", st.Backend()).Msg("Storage initialized")

	placesCfg := cfg.Places
	if !placesCfg.Enabled {
		placesCfg.APIKey = ""
	}
	a := &app{
		cfg:    cfg,
		store:  st,
		places: places.NewClient(placesCfg),
		hub:    ws.NewHub(),
	}

	a.backups, err = backup.NewManager(backup.Config{
		Enabled:    cfg.Backup.Enabled,
		Dir:        cfg.Backup.Dir,
		MaxBackups: cfg.Backup.MaxBackups,
		AutoBackup: cfg.Backup.AutoBackup,
		Interval:   cfg.Backup.Interval,
	}, st, backup.WithOnRestore(func(ctx context.Context) {
		a.hub.Publish(ws.MessageTypeCatalog, map[string]string{"op": "restore"})
	}))
	if err != nil {
		a.close()
		return nil, fmt.Errorf("init backups: %w", err)
	}

	catalogOpts := []catalog.Option{
		catalog.WithOnChange(func(ctx context.Context, op string) {
			a.backups.Trigger("catalog " + op)
			a.hub.Publish(ws.MessageTypeCatalog, map[string]string{"op": op})
		}),
	}
	if a.places.Enabled() {
		catalogOpts = append(catalogOpts, catalog.WithPlaceLookup(a.places))
		logging.Info().Msg("Place lookup enabled")
	}
	cat := catalog.NewService(st, cfg.Categories.Defaults, catalogOpts...)

	engine := roulette.NewEngine(st, st, st, roulette.Config{
		Cooldown:      cfg.Roulette.SpinCooldown,
		ExcludeRecent: cfg.Roulette.ExcludeRecent,
		Location:      loc,
	}, roulette.WithPublisher(a.hub))

	identity := auth.NewIdentity(cfg.Security)
	handler := api.NewHandler(engine, cat, identity, a.backups, a.places, st, api.HistoryLimits{
		Default: cfg.Roulette.HistoryDefaultLimit,
		Max:     cfg.Roulette.HistoryMaxLimit,
	})
	router := api.NewRouter(
		handler,
		identity,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security)),
		ws.NewHandler(a.hub, cfg.Security.CORSOrigins),
	)

	a.server = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return a, nil
}

// supervise adds the long-running services to tree.
func (a *app) supervise(tree *supervisor.Tree) {
	tree.AddStorageService(a.backups)
	tree.AddRealtimeService(a.hub)
	tree.AddAPIService(services.NewHTTPServerService(a.server, a.cfg.Server.ShutdownTimeout))
}

// close releases the places client and the store.
func (a *app) close() {
	a.places.Close()
	if err := a.store.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing store")
	}
}
