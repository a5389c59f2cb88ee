// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/dinnerroulette/internal/models"
)

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// casLastSpin swaps KEYS[1] from ARGV[1] to ARGV[2]; an empty argument stands
// for an absent key.
var casLastSpin = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if (cur == false and ARGV[1] == '') or cur == ARGV[1] then
  if ARGV[2] == '' then
    redis.call('DEL', KEYS[1])
  else
    redis.call('SET', KEYS[1], ARGV[2])
  end
  return 1
end
return 0
`)

// raiseCounter sets KEYS[1] to ARGV[1] when the current value is lower.
var raiseCounter = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local want = tonumber(ARGV[1])
if want > cur then
  redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// appendEntry takes the next id from KEYS[1], stores ARGV[1] with that id
// under ARGV[2]..id and pushes the id onto KEYS[2]. ARGV[1] is the entry JSON
// with its leading id field removed. Running as one script keeps the list in
// id order when several clients append at once.
var appendEntry = redis.NewScript(`
local id = redis.call('INCR', KEYS[1])
redis.call('SET', ARGV[2] .. id, '{"id":' .. id .. ARGV[1])
redis.call('LPUSH', KEYS[2], id)
return id
`)

// entryIDPrefix is how an entry with a zero id starts once marshalled; ID is
// the first field of models.SpinHistoryEntry.
var entryIDPrefix = []byte(`{"id":0`)

// RedisStore implements Store on Redis with this key layout:
//
//	restaurants:counter       INCR id source
//	restaurants:<id>          restaurant JSON
//	restaurants:index         SET of ids
//	custom_categories         SET of names
//	spin_history:counter      INCR id source
//	spin_history:<id>         entry JSON
//	spin_history              LIST of ids, newest at the head
//	user:<name>:last_spin     unix nanoseconds
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// OpenRedisStore connects and pings the server.
func OpenRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(rdb, opts.KeyPrefix), nil
}

// NewRedisStore wraps an existing client. A non-empty prefix namespaces every key.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(parts ...string) string {
	k := s.prefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += p
	}
	return k
}

// Backend returns "redis".
func (s *RedisStore) Backend() string { return BackendRedis }

// Ping implements Store.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// CreateRestaurant implements Catalog.
func (s *RedisStore) CreateRestaurant(ctx context.Context, r *models.Restaurant) (*models.Restaurant, error) {
	id, err := s.rdb.Incr(ctx, s.key("restaurants", "counter")).Result()
	if err != nil {
		return nil, fmt.Errorf("next restaurant id: %w", err)
	}
	stored := r.Clone()
	stored.ID = strconv.FormatInt(id, 10)
	if err := s.writeRestaurant(ctx, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// PutRestaurant implements Catalog.
func (s *RedisStore) PutRestaurant(ctx context.Context, r *models.Restaurant) error {
	if n, err := strconv.ParseInt(r.ID, 10, 64); err == nil {
		if err := raiseCounter.Run(ctx, s.rdb, []string{s.key("restaurants", "counter")}, n).Err(); err != nil {
			return fmt.Errorf("raise restaurant counter: %w", err)
		}
	}
	return s.writeRestaurant(ctx, r)
}

func (s *RedisStore) writeRestaurant(ctx context.Context, r *models.Restaurant) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal restaurant: %w", err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key("restaurants", r.ID), data, 0)
		p.SAdd(ctx, s.key("restaurants", "index"), r.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("write restaurant %s: %w", r.ID, err)
	}
	return nil
}

// GetRestaurant implements Catalog.
func (s *RedisStore) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	data, err := s.rdb.Get(ctx, s.key("restaurants", id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant %s: %w", id, err)
	}
	var r models.Restaurant
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode restaurant %s: %w", id, err)
	}
	return &r, nil
}

// ListRestaurants implements Catalog.
func (s *RedisStore) ListRestaurants(ctx context.Context) ([]*models.Restaurant, error) {
	ids, err := s.rdb.SMembers(ctx, s.key("restaurants", "index")).Result()
	if err != nil {
		return nil, fmt.Errorf("list restaurant ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key("restaurants", id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load restaurants: %w", err)
	}

	out := make([]*models.Restaurant, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue // index entry without a record
		}
		var r models.Restaurant
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			return nil, fmt.Errorf("decode restaurant %s: %w", ids[i], err)
		}
		out = append(out, &r)
	}
	sortByID(out)
	return out, nil
}

// ListCategories implements Catalog.
func (s *RedisStore) ListCategories(ctx context.Context) ([]string, error) {
	cats, err := s.rdb.SMembers(ctx, s.key("custom_categories")).Result()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	sort.Strings(cats)
	return cats, nil
}

// AddCategory implements Catalog.
func (s *RedisStore) AddCategory(ctx context.Context, name string) (bool, error) {
	n, err := s.rdb.SAdd(ctx, s.key("custom_categories"), name).Result()
	if err != nil {
		return false, fmt.Errorf("add category: %w", err)
	}
	return n == 1, nil
}

// AppendEntry implements Ledger.
func (s *RedisStore) AppendEntry(ctx context.Context, e *models.SpinHistoryEntry) (int64, error) {
	stored := *e
	stored.ID = 0
	data, err := json.Marshal(&stored)
	if err != nil {
		return 0, fmt.Errorf("marshal history entry: %w", err)
	}
	if !bytes.HasPrefix(data, entryIDPrefix) {
		return 0, fmt.Errorf("marshal history entry: unexpected encoding %.20q", data)
	}

	id, err := appendEntry.Run(ctx, s.rdb,
		[]string{s.key("spin_history", "counter"), s.key("spin_history")},
		data[len(entryIDPrefix):], s.key("spin_history", ""),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("append history: %w", err)
	}
	e.ID = id
	return id, nil
}

func (s *RedisStore) entryKey(id int64) string {
	return s.key("spin_history", strconv.FormatInt(id, 10))
}

// GetEntry implements Ledger.
func (s *RedisStore) GetEntry(ctx context.Context, id int64) (*models.SpinHistoryEntry, error) {
	return s.getEntry(ctx, s.rdb, id)
}

// getter is the subset of client and transaction methods getEntry needs.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) getEntry(ctx context.Context, c getter, id int64) (*models.SpinHistoryEntry, error) {
	data, err := c.Get(ctx, s.entryKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get history %d: %w", id, err)
	}
	var e models.SpinHistoryEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode history %d: %w", id, err)
	}
	return &e, nil
}

// MarkWent implements Ledger with an optimistic WATCH transaction.
func (s *RedisStore) MarkWent(ctx context.Context, id int64) (*models.SpinHistoryEntry, bool, error) {
	var (
		entry   *models.SpinHistoryEntry
		changed bool
	)
	key := s.entryKey(id)

	txf := func(tx *redis.Tx) error {
		e, err := s.getEntry(ctx, tx, id)
		if err != nil {
			return err
		}
		entry, changed = e, !e.Went
		if !changed {
			return nil
		}
		e.Went = true
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxnRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		return entry, changed, nil
	}
	return nil, false, fmt.Errorf("mark went %d: transaction retries exhausted", id)
}

// RecentEntries implements Ledger.
func (s *RedisStore) RecentEntries(ctx context.Context, limit int) ([]*models.SpinHistoryEntry, error) {
	if limit <= 0 {
		return []*models.SpinHistoryEntry{}, nil
	}
	return s.loadRange(ctx, 0, int64(limit-1))
}

// scanPage is the number of ids ScanEntries loads per round trip.
const scanPage = 100

// ScanEntries implements Ledger.
func (s *RedisStore) ScanEntries(ctx context.Context, fn func(*models.SpinHistoryEntry) bool) error {
	for start := int64(0); ; start += scanPage {
		page, err := s.loadRange(ctx, start, start+scanPage-1)
		if err != nil {
			return err
		}
		for _, e := range page {
			if !fn(e) {
				return nil
			}
		}
		if len(page) < scanPage {
			return nil
		}
	}
}

func (s *RedisStore) loadRange(ctx context.Context, start, stop int64) ([]*models.SpinHistoryEntry, error) {
	ids, err := s.rdb.LRange(ctx, s.key("spin_history"), start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list history ids: %w", err)
	}
	out := make([]*models.SpinHistoryEntry, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key("spin_history", id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var e models.SpinHistoryEntry
		if err := json.Unmarshal([]byte(str), &e); err != nil {
			return nil, fmt.Errorf("decode history %s: %w", ids[i], err)
		}
		out = append(out, &e)
	}
	return out, nil
}

func (s *RedisStore) cooldownKey(user string) string {
	return s.key("user", user, "last_spin")
}

// LastSpin implements CooldownStore.
func (s *RedisStore) LastSpin(ctx context.Context, user string) (time.Time, bool, error) {
	n, err := s.rdb.Get(ctx, s.cooldownKey(user)).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get last spin: %w", err)
	}
	return fromUnixNano(n), true, nil
}

// CompareAndSwapLastSpin implements CooldownStore with a Lua script.
func (s *RedisStore) CompareAndSwapLastSpin(ctx context.Context, user string, old, next time.Time) (bool, error) {
	n, err := casLastSpin.Run(ctx, s.rdb, []string{s.cooldownKey(user)},
		encodeNanos(old), encodeNanos(next)).Int()
	if err != nil {
		return false, fmt.Errorf("swap last spin: %w", err)
	}
	return n == 1, nil
}

func encodeNanos(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.FormatInt(unixNano(t), 10)
}
