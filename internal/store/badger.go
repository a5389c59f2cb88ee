// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/dinnerroulette/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	restaurantKeyPrefix = "restaurant:"
	categoryKeyPrefix   = "category:"
	historyKeyPrefix    = "history:"
	cooldownKeyPrefix   = "cooldown:"

	restaurantSeqKey = "seq:restaurant"
	historySeqKey    = "seq:history"
)

// maxTxnRetries bounds how often a transaction is retried on badger.ErrConflict.
const maxTxnRetries = 16

// BadgerStore implements Store on an embedded BadgerDB. Id counters and the
// cooldown compare-and-swap run inside read-write transactions, so badger's
// conflict detection serializes concurrent writers.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a BadgerDB at path. inMemory ignores path
// and keeps everything in RAM, which tests use.
func OpenBadgerStore(path string, inMemory bool) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStore wraps an already opened database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Backend returns "badger".
func (s *BadgerStore) Backend() string { return BackendBadger }

// Ping reports whether the database is still open.
func (s *BadgerStore) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// update runs fn in a read-write transaction, retrying on conflicts.
func (s *BadgerStore) update(fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxTxnRetries; i++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("transaction retries exhausted: %w", err)
}

// CreateRestaurant implements Catalog.
func (s *BadgerStore) CreateRestaurant(_ context.Context, r *models.Restaurant) (*models.Restaurant, error) {
	stored := r.Clone()
	err := s.update(func(txn *badger.Txn) error {
		id, err := nextSeq(txn, restaurantSeqKey)
		if err != nil {
			return err
		}
		stored.ID = strconv.FormatInt(id, 10)
		return setJSON(txn, restaurantKeyPrefix+stored.ID, stored)
	})
	if err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	return stored, nil
}

// PutRestaurant implements Catalog.
func (s *BadgerStore) PutRestaurant(_ context.Context, r *models.Restaurant) error {
	err := s.update(func(txn *badger.Txn) error {
		if n, err := strconv.ParseInt(r.ID, 10, 64); err == nil {
			if err := raiseSeq(txn, restaurantSeqKey, n); err != nil {
				return err
			}
		}
		return setJSON(txn, restaurantKeyPrefix+r.ID, r)
	})
	if err != nil {
		return fmt.Errorf("put restaurant %s: %w", r.ID, err)
	}
	return nil
}

// GetRestaurant implements Catalog.
func (s *BadgerStore) GetRestaurant(_ context.Context, id string) (*models.Restaurant, error) {
	var r models.Restaurant
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, restaurantKeyPrefix+id, &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRestaurants implements Catalog.
func (s *BadgerStore) ListRestaurants(ctx context.Context) ([]*models.Restaurant, error) {
	var out []*models.Restaurant
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(restaurantKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r models.Restaurant
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, &r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	sortByID(out)
	return out, nil
}

// ListCategories implements Catalog.
func (s *BadgerStore) ListCategories(_ context.Context) ([]string, error) {
	var out []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(categoryKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			out = append(out, string(it.Item().Key()[len(categoryKeyPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// AddCategory implements Catalog.
func (s *BadgerStore) AddCategory(_ context.Context, name string) (bool, error) {
	var added bool
	err := s.update(func(txn *badger.Txn) error {
		key := []byte(categoryKeyPrefix + name)
		_, err := txn.Get(key)
		if err == nil {
			added = false
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		added = true
		return txn.Set(key, nil)
	})
	if err != nil {
		return false, fmt.Errorf("add category: %w", err)
	}
	return added, nil
}

// AppendEntry implements Ledger.
func (s *BadgerStore) AppendEntry(_ context.Context, e *models.SpinHistoryEntry) (int64, error) {
	stored := *e
	err := s.update(func(txn *badger.Txn) error {
		id, err := nextSeq(txn, historySeqKey)
		if err != nil {
			return err
		}
		stored.ID = id
		return setJSON(txn, historyKey(id), &stored)
	})
	if err != nil {
		return 0, fmt.Errorf("append history: %w", err)
	}
	e.ID = stored.ID
	return stored.ID, nil
}

// GetEntry implements Ledger.
func (s *BadgerStore) GetEntry(_ context.Context, id int64) (*models.SpinHistoryEntry, error) {
	var e models.SpinHistoryEntry
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, historyKey(id), &e)
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// MarkWent implements Ledger.
func (s *BadgerStore) MarkWent(_ context.Context, id int64) (*models.SpinHistoryEntry, bool, error) {
	var (
		e       models.SpinHistoryEntry
		changed bool
	)
	err := s.update(func(txn *badger.Txn) error {
		if err := getJSON(txn, historyKey(id), &e); err != nil {
			return err
		}
		changed = !e.Went
		if !changed {
			return nil
		}
		e.Went = true
		return setJSON(txn, historyKey(id), &e)
	})
	if err != nil {
		return nil, false, err
	}
	return &e, changed, nil
}

// RecentEntries implements Ledger.
func (s *BadgerStore) RecentEntries(ctx context.Context, limit int) ([]*models.SpinHistoryEntry, error) {
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

// ScanEntries implements Ledger. History keys are zero-padded so a reverse
// iteration yields newest first.
func (s *BadgerStore) ScanEntries(ctx context.Context, fn func(*models.SpinHistoryEntry) bool) error {
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(historyKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(append([]byte(historyKeyPrefix), 0xFF)); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e models.SpinHistoryEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if !fn(&e) {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan history: %w", err)
	}
	return nil
}

// LastSpin implements CooldownStore.
func (s *BadgerStore) LastSpin(_ context.Context, user string) (time.Time, bool, error) {
	var (
		n  int64
		ok bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		n, ok, err = getInt(txn, cooldownKeyPrefix+user)
		return err
	})
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	return fromUnixNano(n), true, nil
}

// CompareAndSwapLastSpin implements CooldownStore.
func (s *BadgerStore) CompareAndSwapLastSpin(_ context.Context, user string, old, next time.Time) (bool, error) {
	var swapped bool
	key := cooldownKeyPrefix + user
	err := s.update(func(txn *badger.Txn) error {
		swapped = false
		cur, ok, err := getInt(txn, key)
		if err != nil {
			return err
		}
		if old.IsZero() {
			if ok {
				return nil
			}
		} else if !ok || cur != old.UnixNano() {
			return nil
		}

		if next.IsZero() {
			err = txn.Delete([]byte(key))
		} else {
			err = txn.Set([]byte(key), []byte(strconv.FormatInt(unixNano(next), 10)))
		}
		if err != nil {
			return err
		}
		swapped = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("swap cooldown: %w", err)
	}
	return swapped, nil
}

func historyKey(id int64) string {
	return fmt.Sprintf("%s%020d", historyKeyPrefix, id)
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

// getJSON maps a missing key to ErrNotFound.
func getJSON(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func getInt(txn *badger.Txn, key string) (int64, bool, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get %s: %w", key, err)
	}
	var n int64
	err = item.Value(func(val []byte) error {
		var perr error
		n, perr = strconv.ParseInt(string(val), 10, 64)
		return perr
	})
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, true, nil
}

func nextSeq(txn *badger.Txn, key string) (int64, error) {
	cur, _, err := getInt(txn, key)
	if err != nil {
		return 0, err
	}
	cur++
	if err := txn.Set([]byte(key), []byte(strconv.FormatInt(cur, 10))); err != nil {
		return 0, err
	}
	return cur, nil
}

func raiseSeq(txn *badger.Txn, key string, atLeast int64) error {
	cur, _, err := getInt(txn, key)
	if err != nil {
		return err
	}
	if cur >= atLeast {
		return nil
	}
	return txn.Set([]byte(key), []byte(strconv.FormatInt(atLeast, 10)))
}
