// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package store

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/tomtom215/dinnerroulette/internal/models"
)

// MemoryStore is an in-process Store. State is lost on restart.
type MemoryStore struct {
	mu sync.RWMutex

	restaurants   map[string]*models.Restaurant
	restaurantSeq int64
	categories    map[string]struct{}
	entries       []*models.SpinHistoryEntry // ascending id
	entrySeq      int64
	cooldowns     map[string]time.Time
	closed        bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		restaurants: make(map[string]*models.Restaurant),
		categories:  make(map[string]struct{}),
		cooldowns:   make(map[string]time.Time),
	}
}

// Backend returns "memory".
func (s *MemoryStore) Backend() string { return BackendMemory }

// Ping fails only after Close.
func (s *MemoryStore) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// CreateRestaurant implements Catalog.
func (s *MemoryStore) CreateRestaurant(_ context.Context, r *models.Restaurant) (*models.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.restaurantSeq++
	stored := r.Clone()
	stored.ID = strconv.FormatInt(s.restaurantSeq, 10)
	s.restaurants[stored.ID] = stored
	return stored.Clone(), nil
}

// PutRestaurant implements Catalog.
func (s *MemoryStore) PutRestaurant(_ context.Context, r *models.Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, err := strconv.ParseInt(r.ID, 10, 64); err == nil && n > s.restaurantSeq {
		s.restaurantSeq = n
	}
	s.restaurants[r.ID] = r.Clone()
	return nil
}

// GetRestaurant implements Catalog.
func (s *MemoryStore) GetRestaurant(_ context.Context, id string) (*models.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.restaurants[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.Clone(), nil
}

// ListRestaurants implements Catalog.
func (s *MemoryStore) ListRestaurants(_ context.Context) ([]*models.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Restaurant, 0, len(s.restaurants))
	for _, r := range s.restaurants {
		out = append(out, r.Clone())
	}
	sortByID(out)
	return out, nil
}

// ListCategories implements Catalog.
func (s *MemoryStore) ListCategories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.categories))
	for c := range s.categories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// AddCategory implements Catalog.
func (s *MemoryStore) AddCategory(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[name]; ok {
		return false, nil
	}
	s.categories[name] = struct{}{}
	return true, nil
}

// AppendEntry implements Ledger.
func (s *MemoryStore) AppendEntry(_ context.Context, e *models.SpinHistoryEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entrySeq++
	e.ID = s.entrySeq
	stored := *e
	s.entries = append(s.entries, &stored)
	return e.ID, nil
}

// GetEntry implements Ledger.
func (s *MemoryStore) GetEntry(_ context.Context, id int64) (*models.SpinHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := s.findEntry(id)
	if e == nil {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// MarkWent implements Ledger.
func (s *MemoryStore) MarkWent(_ context.Context, id int64) (*models.SpinHistoryEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findEntry(id)
	if e == nil {
		return nil, false, ErrNotFound
	}
	changed := !e.Went
	e.Went = true
	cp := *e
	return &cp, changed, nil
}

// findEntry must be called with mu held.
func (s *MemoryStore) findEntry(id int64) *models.SpinHistoryEntry {
	i := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].ID >= id })
	if i < len(s.entries) && s.entries[i].ID == id {
		return s.entries[i]
	}
	return nil
}

// RecentEntries implements Ledger.
func (s *MemoryStore) RecentEntries(ctx context.Context, limit int) ([]*models.SpinHistoryEntry, error) {
	out := make([]*models.SpinHistoryEntry, 0, limit)
	if limit <= 0 {
		return out, nil
	}
	err := s.ScanEntries(ctx, func(e *models.SpinHistoryEntry) bool {
		out = append(out, e)
		return len(out) < limit
	})
	return out, err
}

// ScanEntries implements Ledger.
func (s *MemoryStore) ScanEntries(_ context.Context, fn func(*models.SpinHistoryEntry) bool) error {
	s.mu.RLock()
	snapshot := make([]models.SpinHistoryEntry, len(s.entries))
	for i, e := range s.entries {
		snapshot[i] = *e
	}
	s.mu.RUnlock()

	for i := len(snapshot) - 1; i >= 0; i-- {
		if !fn(&snapshot[i]) {
			return nil
		}
	}
	return nil
}

// LastSpin implements CooldownStore.
func (s *MemoryStore) LastSpin(_ context.Context, user string) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.cooldowns[user]
	return t, ok, nil
}

// CompareAndSwapLastSpin implements CooldownStore.
func (s *MemoryStore) CompareAndSwapLastSpin(_ context.Context, user string, old, next time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.cooldowns[user]
	switch {
	case old.IsZero() && ok:
		return false, nil
	case !old.IsZero() && (!ok || !cur.Equal(old)):
		return false, nil
	}

	if next.IsZero() {
		delete(s.cooldowns, user)
	} else {
		s.cooldowns[user] = next.UTC()
	}
	return true, nil
}

// sortByID orders restaurants by numeric id, falling back to string order.
func sortByID(rs []*models.Restaurant) {
	sort.Slice(rs, func(i, j int) bool {
		a, errA := strconv.ParseInt(rs[i].ID, 10, 64)
		b, errB := strconv.ParseInt(rs[j].ID, 10, 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return rs[i].ID < rs[j].ID
	})
}
