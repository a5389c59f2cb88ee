// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package backup

import (
	"context"
	"time"

	"github.com/tomtom215/dinnerroulette/internal/logging"
)

// Trigger asks the running service for a backup. It never blocks; a trigger
// arriving while one is pending is folded into it.
func (m *Manager) Trigger(reason string) {
	if !m.cfg.Enabled || !m.cfg.AutoBackup {
		return
	}
	select {
	case m.trigger <- reason:
	default:
	}
}

// Serve implements suture.Service. It writes a backup for every trigger and,
// when Interval is set, on every tick, until ctx is canceled.
func (m *Manager) Serve(ctx context.Context) error {
	if !m.cfg.Enabled {
		<-ctx.Done()
		return ctx.Err()
	}

	var tick <-chan time.Time
	if m.cfg.Interval > 0 {
		ticker := time.NewTicker(m.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	logger := logging.WithComponent("backup")
	logger.Info().
		Bool("auto_backup", m.cfg.AutoBackup).
		Dur("interval", m.cfg.Interval).
		Msg("Backup scheduler started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case reason := <-m.trigger:
			m.run(ctx, reason)
		case <-tick:
			m.run(ctx, "scheduled")
		}
	}
}

func (m *Manager) run(ctx context.Context, reason string) {
	if _, err := m.CreateBackup(ctx); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("reason", reason).Msg("Automatic backup failed")
	}
}

// String implements fmt.Stringer for suture logging.
func (m *Manager) String() string {
	return "backup-scheduler"
}
