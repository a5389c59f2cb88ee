// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/dinnerroulette/internal/auth"
	"github.com/tomtom215/dinnerroulette/internal/config"
	"github.com/tomtom215/dinnerroulette/internal/logging"
	"github.com/tomtom215/dinnerroulette/internal/supervisor"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stdout,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("storage", cfg.Storage.Backend).
		Dur("spin_cooldown", cfg.Roulette.SpinCooldown).
		Int("exclude_recent", cfg.Roulette.ExcludeRecent).
		Msg("Starting Dinner Roulette with supervisor tree")

	warnInsecureSettings(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer a.close()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	a.supervise(tree)

	logging.Info().Str("addr", a.server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	logging.Info().Msg("Application stopped gracefully")
}

func warnInsecureSettings(cfg *config.Config) {
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
	}
	if !auth.NewIdentity(cfg.Security).Signed() {
		logging.Warn().Msg("IDENTITY_SECRET is not set; identity cookies are unsigned and can be forged")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.Storage.Backend == "" || cfg.Storage.Backend == "memory" {
		logging.Warn().Msg("Using in-memory storage; restaurants and history are lost on restart")
	}
}
