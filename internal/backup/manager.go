// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dinnerroulette/internal/logging"
	"github.com/tomtom215/dinnerroulette/internal/metrics"
	"github.com/tomtom215/dinnerroulette/internal/models"
	"github.com/tomtom215/dinnerroulette/internal/store"
)

const (
	// LatestName is the file that always mirrors the newest snapshot.
	LatestName = "restaurants_latest.json"

	filePrefix     = "restaurants_backup_"
	fileSuffix     = ".json"
	fileTimeLayout = "20060102_150405"

	opBackup  = "backup"
	opRestore = "restore"
)

var backupNamePattern = regexp.MustCompile(`^restaurants_backup_\d{8}_\d{6}(_\d+)?\.json$`)

var (
	// ErrInvalidName is returned for restore names that are not backup files.
	ErrInvalidName = errors.New("invalid backup file name")

	// ErrBackupNotFound is returned when the named backup does not exist.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrDisabled is returned when backups are turned off.
	ErrDisabled = errors.New("backups are disabled")
)

// Config holds backup settings.
type Config struct {
	Enabled bool
	Dir     string

	// MaxBackups is how many timestamped files are kept. Zero keeps all.
	MaxBackups int

	// AutoBackup makes Trigger schedule a backup.
	AutoBackup bool

	// Interval adds periodic backups when non-zero.
	Interval time.Duration
}

// Snapshot is the on-disk backup format.
type Snapshot struct {
	Timestamp        time.Time            `json:"timestamp"`
	Restaurants      []*models.Restaurant `json:"restaurants"`
	CustomCategories []string             `json:"custom_categories"`
}

// Info describes a backup file.
type Info struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Result describes a written backup.
type Result struct {
	File        string    `json:"file"`
	Restaurants int       `json:"restaurants"`
	Categories  int       `json:"categories"`
	Timestamp   time.Time `json:"timestamp"`
}

// RestoreResult describes a completed restore.
type RestoreResult struct {
	File                string    `json:"file"`
	RestaurantsRestored int       `json:"restaurants_restored"`
	CategoriesRestored  int       `json:"categories_restored"`
	Timestamp           time.Time `json:"timestamp"`
}

// Manager creates, prunes and restores catalog snapshots.
type Manager struct {
	cfg     Config
	catalog store.Catalog
	now     func() time.Time

	// mu serializes writes and restores against each other.
	mu sync.Mutex

	trigger   chan string
	onRestore func(ctx context.Context)
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithOnRestore registers a hook run after a successful restore.
func WithOnRestore(fn func(ctx context.Context)) Option {
	return func(m *Manager) { m.onRestore = fn }
}

// NewManager creates a manager and, when enabled, the backup directory.
func NewManager(cfg Config, catalog store.Catalog, opts ...Option) (*Manager, error) {
	if cfg.Enabled {
		if cfg.Dir == "" {
			return nil, fmt.Errorf("backup directory is required")
		}
		if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create backup directory: %w", err)
		}
	}

	m := &Manager{
		cfg:     cfg,
		catalog: catalog,
		now:     time.Now,
		trigger: make(chan string, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Enabled reports whether backups are turned on.
func (m *Manager) Enabled() bool {
	return m.cfg.Enabled
}

// CreateBackup snapshots the catalog, writes it and prunes old files.
func (m *Manager) CreateBackup(ctx context.Context) (res *Result, err error) {
	if !m.cfg.Enabled {
		return nil, ErrDisabled
	}
	defer func() { metrics.RecordBackup(opBackup, err) }()

	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	name := m.nextName(snap.Timestamp)
	if err := writeFileAtomic(filepath.Join(m.cfg.Dir, name), data); err != nil {
		return nil, err
	}
	if err := writeFileAtomic(filepath.Join(m.cfg.Dir, LatestName), data); err != nil {
		return nil, err
	}

	if err := m.applyRetention(); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Backup retention failed")
	}

	logging.Ctx(ctx).Info().
		Str("file", name).
		Int("restaurants", len(snap.Restaurants)).
		Msg("Catalog backup written")

	return &Result{
		File:        name,
		Restaurants: len(snap.Restaurants),
		Categories:  len(snap.CustomCategories),
		Timestamp:   snap.Timestamp,
	}, nil
}

func (m *Manager) snapshot(ctx context.Context) (*Snapshot, error) {
	restaurants, err := m.catalog.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	categories, err := m.catalog.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return &Snapshot{
		Timestamp:        m.now().UTC().Truncate(time.Second),
		Restaurants:      restaurants,
		CustomCategories: categories,
	}, nil
}

// Restore loads the named backup, or the latest one when name is empty.
func (m *Manager) Restore(ctx context.Context, name string) (res *RestoreResult, err error) {
	if !m.cfg.Enabled {
		return nil, ErrDisabled
	}
	if name == "" {
		name = LatestName
	}
	if !validName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	defer func() { metrics.RecordBackup(opRestore, err) }()

	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.readSnapshot(name)
	if err != nil {
		return nil, err
	}

	res = &RestoreResult{File: name, Timestamp: snap.Timestamp}
	for _, c := range snap.CustomCategories {
		added, err := m.catalog.AddCategory(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("failed to restore category %q: %w", c, err)
		}
		if added {
			res.CategoriesRestored++
		}
	}
	for _, r := range snap.Restaurants {
		if r == nil || r.ID == "" {
			logging.Ctx(ctx).Warn().Str("file", name).Msg("Skipping restaurant without id")
			continue
		}
		if err := m.catalog.PutRestaurant(ctx, r); err != nil {
			return nil, fmt.Errorf("failed to restore restaurant %s: %w", r.ID, err)
		}
		res.RestaurantsRestored++
	}

	metrics.CatalogMutations.WithLabelValues(opRestore).Inc()
	logging.Ctx(ctx).Info().
		Str("file", name).
		Int("restaurants", res.RestaurantsRestored).
		Int("categories", res.CategoriesRestored).
		Msg("Catalog restored from backup")

	if m.onRestore != nil {
		m.onRestore(ctx)
	}
	return res, nil
}

func (m *Manager) readSnapshot(name string) (*Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(m.cfg.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode backup %s: %w", name, err)
	}
	return &snap, nil
}

// nextName returns the first free file name for ts. Snapshots taken within
// the same second get a numeric suffix instead of replacing each other.
// Caller holds mu.
func (m *Manager) nextName(ts time.Time) string {
	stamp := filePrefix + ts.Format(fileTimeLayout)
	name := stamp + fileSuffix
	for seq := 2; ; seq++ {
		if _, err := os.Stat(filepath.Join(m.cfg.Dir, name)); errors.Is(err, os.ErrNotExist) {
			return name
		}
		name = stamp + "_" + strconv.Itoa(seq) + fileSuffix
	}
}

// validName accepts only plain backup file names, never paths.
func validName(name string) bool {
	if filepath.Base(name) != name {
		return false
	}
	return name == LatestName || backupNamePattern.MatchString(name)
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to finalize backup: %w", err)
	}
	return nil
}
