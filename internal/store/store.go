// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

// Package store persists the restaurant catalog, the spin history ledger and
// per-user cooldown timestamps.
//
// Three backends implement Store:
//
//   - memory: maps guarded by a RWMutex, for tests and single-process dev runs
//   - badger: embedded BadgerDB, durable across restarts
//   - redis: shared Redis instance, compatible with several server processes
//
// Every backend provides CompareAndSwapLastSpin as an atomic operation so the
// cooldown cannot be double-spent by two processes against the same store.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/dinnerroulette/internal/models"
)

var (
	// ErrNotFound is returned when a restaurant or history entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned when the store has been closed.
	ErrClosed = errors.New("store closed")
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Catalog holds restaurant records and custom categories.
type Catalog interface {
	// CreateRestaurant assigns the next id to r, stores it and returns the stored copy.
	CreateRestaurant(ctx context.Context, r *models.Restaurant) (*models.Restaurant, error)

	// PutRestaurant stores r under its existing id, creating or replacing it.
	// The id counter is advanced past numeric ids so later creates never collide.
	PutRestaurant(ctx context.Context, r *models.Restaurant) error

	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)

	// ListRestaurants returns every record, including inactive ones.
	ListRestaurants(ctx context.Context) ([]*models.Restaurant, error)

	// ListCategories returns the custom categories, sorted.
	ListCategories(ctx context.Context) ([]string, error)

	// AddCategory reports false when the category already existed.
	AddCategory(ctx context.Context, name string) (bool, error)
}

// Ledger is the append-only spin history.
type Ledger interface {
	// AppendEntry assigns the next id to e and stores it.
	AppendEntry(ctx context.Context, e *models.SpinHistoryEntry) (int64, error)

	GetEntry(ctx context.Context, id int64) (*models.SpinHistoryEntry, error)

	// MarkWent sets went=true. changed is false when it was already set.
	MarkWent(ctx context.Context, id int64) (entry *models.SpinHistoryEntry, changed bool, err error)

	// RecentEntries returns up to limit entries, newest first.
	RecentEntries(ctx context.Context, limit int) ([]*models.SpinHistoryEntry, error)

	// ScanEntries walks entries newest first until fn returns false.
	ScanEntries(ctx context.Context, fn func(*models.SpinHistoryEntry) bool) error
}

// CooldownStore holds the last-spin timestamp per user.
type CooldownStore interface {
	// LastSpin returns the user's last spin time; ok is false when none is recorded.
	LastSpin(ctx context.Context, user string) (t time.Time, ok bool, err error)

	// CompareAndSwapLastSpin replaces the user's timestamp with next only if it
	// currently equals old. A zero old means "no timestamp recorded"; a zero
	// next deletes the timestamp.
	CompareAndSwapLastSpin(ctx context.Context, user string, old, next time.Time) (bool, error)
}

// Store is the full persistence surface used by the server.
type Store interface {
	Catalog
	Ledger
	CooldownStore

	Ping(ctx context.Context) error
	Backend() string
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend string

	BadgerPath     string
	BadgerInMemory bool

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string
}

// Open creates the configured backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendBadger:
		return OpenBadgerStore(cfg.BadgerPath, cfg.BadgerInMemory)
	case BackendRedis:
		return OpenRedisStore(ctx, RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// unixNano maps the zero time to 0 so it can stand for "absent" in encodings.
func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
