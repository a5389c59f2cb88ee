// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

// Package backup writes and restores JSON snapshots of the restaurant catalog.
//
// # Files
//
// Every backup is written twice into the configured directory:
//
//	restaurants_backup_YYYYMMDD_HHMMSS.json  - timestamped snapshot (UTC)
//	restaurants_latest.json                  - copy of the newest snapshot
//
// Files are written to a temporary name and renamed so a crash never leaves a
// truncated snapshot behind. Only MaxBackups timestamped files are retained;
// the latest copy is never pruned.
//
// # Snapshot Contents
//
// A snapshot holds every restaurant, including soft-deleted ones, and the
// custom categories. Spin history and cooldowns are not part of the catalog
// and are never backed up.
//
// # Restore
//
// Restore upserts each restaurant under its original id and re-adds the custom
// categories. Restaurants created after the snapshot are left untouched.
//
// # Scheduling
//
// Manager implements suture.Service. When AutoBackup is enabled, catalog
// mutations call Trigger and the running service writes a snapshot; bursts of
// triggers collapse into a single backup. A non-zero Interval adds periodic
// backups on top.
package backup
