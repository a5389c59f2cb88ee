// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

// Package main is the entry point for the Dinner Roulette server.
//
// Dinner Roulette settles "where do we eat?" for a small group: everyone adds
// restaurants to a shared list, anyone spins, and the wheel picks a place
// that is open today and was not picked recently.
//
// # Startup Order
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Storage: memory, BadgerDB or Redis
//  4. Places client, websocket hub and backup manager
//  5. Catalog service and roulette engine
//  6. HTTP router and server
//  7. Supervisor tree (suture) running the backup scheduler, the hub and the
//     HTTP server
//
// # Configuration
//
// Common environment variables:
//
//	HTTP_PORT=5010
//	STORAGE_BACKEND=badger BADGER_PATH=/data/badger
//	STORAGE_BACKEND=redis REDIS_ADDR=redis:6379
//	IDENTITY_SECRET=$(openssl rand -hex 32)
//	SPIN_COOLDOWN=30 EXCLUDE_RECENT=1 ROULETTE_TIMEZONE=America/Chicago
//	PLACES_ENABLED=true GOOGLE_PLACES_API_KEY=... PLACES_LOCATION=41.88,-87.63
//	BACKUP_ENABLED=true BACKUP_DIR=/data/backups BACKUP_AUTO=true
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests within HTTP_SHUTDOWN_TIMEOUT, websocket clients receive a
// close frame, and the store is closed last.
package main
