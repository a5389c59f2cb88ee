// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package roulette

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/tomtom215/dinnerroulette/internal/logging"
	"github.com/tomtom215/dinnerroulette/internal/metrics"
	"github.com/tomtom215/dinnerroulette/internal/models"
	"github.com/tomtom215/dinnerroulette/internal/store"
)

// Event types published after state changes.
const (
	EventSpin = "spin"
	EventWent = "went"
)

// Publisher receives engine events. The websocket hub implements it.
type Publisher interface {
	Publish(eventType string, data any)
}

// Config holds engine settings.
type Config struct {
	// Cooldown is the minimum interval between two spins of one user.
	Cooldown time.Duration

	// ExcludeRecent is how many distinct recent picks in the same scope get
	// weight zero. 0 disables recency exclusion.
	ExcludeRecent int

	// Location decides which weekday "today" is. Defaults to UTC.
	Location *time.Location
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand replaces the uniform integer source used by draws.
func WithRand(intn func(n int) int) Option {
	return func(e *Engine) { e.intn = intn }
}

// WithPublisher sets the event sink.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// SpinResult is a successful spin.
type SpinResult struct {
	Restaurant *models.Restaurant       `json:"restaurant"`
	Entry      *models.SpinHistoryEntry `json:"entry"`
}

// WentEvent is published when an entry is confirmed for the first time.
type WentEvent struct {
	Entry *models.SpinHistoryEntry `json:"entry"`
}

// Engine coordinates cooldown, pool building, selection and the ledger.
type Engine struct {
	catalog  store.Catalog
	ledger   *HistoryLedger
	cooldown *CooldownTracker
	locks    *userLocks

	excludeRecent int
	loc           *time.Location
	now           func() time.Time
	intn          func(n int) int
	publisher     Publisher
}

// NewEngine creates an engine over the given stores.
func NewEngine(catalog store.Catalog, ledger store.Ledger, cooldowns store.CooldownStore, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		catalog:       catalog,
		ledger:        NewHistoryLedger(ledger),
		cooldown:      NewCooldownTracker(cooldowns, cfg.Cooldown),
		locks:         newUserLocks(),
		excludeRecent: max(cfg.ExcludeRecent, 0),
		loc:           cfg.Location,
		now:           time.Now,
		intn:          rand.IntN,
	}
	if e.loc == nil {
		e.loc = time.UTC
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CooldownRemaining reports how many seconds user must wait before the next
// spin, 0 when a spin would be accepted now.
func (e *Engine) CooldownRemaining(ctx context.Context, user string) (int, error) {
	return e.cooldown.Remaining(ctx, user, e.now())
}

// Spin draws a restaurant for user under scope and records it. It returns a
// *CooldownError when the user is throttled and ErrEmptyPool when nothing in
// scope is open today. Spins by one user are serialized; different users run
// in parallel.
func (e *Engine) Spin(ctx context.Context, user string, scope models.Scope) (*SpinResult, error) {
	unlock := e.locks.lock(user)
	defer unlock()

	start := time.Now()
	now := e.now()

	res, err := e.cooldown.TryConsume(ctx, user, now)
	if err != nil {
		if errors.Is(err, ErrCooldownActive) {
			metrics.RecordSpin(metrics.SpinCooldown, 0)
		} else {
			metrics.RecordSpin(metrics.SpinError, 0)
		}
		return nil, err
	}

	result, err := e.selectAndRecord(ctx, user, scope, now)
	if err != nil {
		e.release(ctx, res)
		if errors.Is(err, ErrEmptyPool) {
			metrics.RecordSpin(metrics.SpinEmptyPool, 0)
		} else {
			metrics.RecordSpin(metrics.SpinError, 0)
		}
		return nil, err
	}

	metrics.RecordSpin(metrics.SpinSuccess, time.Since(start))
	logging.Ctx(ctx).Info().
		Str("scope", scope.String()).
		Str("restaurant", result.Restaurant.Name).
		Int64("entry_id", result.Entry.ID).
		Msg("Spin recorded")

	if e.publisher != nil {
		e.publisher.Publish(EventSpin, result)
	}
	return result, nil
}

func (e *Engine) selectAndRecord(ctx context.Context, user string, scope models.Scope, now time.Time) (*SpinResult, error) {
	pool, wp, _, err := e.weigh(ctx, scope, now)
	if err != nil {
		return nil, err
	}

	pick, err := wp.Draw(e.intn)
	if err != nil {
		return nil, err
	}
	metrics.PoolSize.Observe(float64(len(pool.Open)))

	entry, err := e.ledger.Append(ctx, pick, user, now)
	if err != nil {
		return nil, err
	}
	return &SpinResult{Restaurant: pick, Entry: entry}, nil
}

func (e *Engine) release(ctx context.Context, res *Reservation) {
	// The caller's context may already be canceled; the rollback must still run.
	ctx = context.WithoutCancel(ctx)
	ok, err := e.cooldown.Release(ctx, res)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to release cooldown reservation")
		return
	}
	if ok {
		metrics.CooldownReleases.Inc()
	}
}

// weigh builds the pool and weights for scope as of now.
func (e *Engine) weigh(ctx context.Context, scope models.Scope, now time.Time) (*Pool, *WeightedPool, []string, error) {
	restaurants, err := e.catalog.ListRestaurants(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	pool := BuildPool(restaurants, scope, now.In(e.loc))
	if len(pool.Open) == 0 {
		return pool, nil, nil, ErrEmptyPool
	}

	recent, err := e.ledger.RecentDistinctForScope(ctx, scope, e.excludeRecent)
	if err != nil {
		return nil, nil, nil, err
	}
	return pool, AssignWeights(pool.Open, recent), recent, nil
}

// Stats reports the pool a spin under scope would draw from right now,
// without drawing or writing anything. An empty pool is not an error here.
func (e *Engine) Stats(ctx context.Context, scope models.Scope) (*models.PoolStats, error) {
	pool, wp, recent, err := e.weigh(ctx, scope, e.now())
	if errors.Is(err, ErrEmptyPool) {
		return BuildStats(pool, &WeightedPool{}, nil), nil
	}
	if err != nil {
		return nil, err
	}
	return BuildStats(pool, wp, recent), nil
}

// MarkWent confirms the group went to the entry's restaurant. Repeated calls
// succeed without publishing again.
func (e *Engine) MarkWent(ctx context.Context, id int64) (*models.SpinHistoryEntry, error) {
	entry, changed, err := e.ledger.MarkWent(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics.RecordWent(changed)
	if changed && e.publisher != nil {
		e.publisher.Publish(EventWent, WentEvent{Entry: entry})
	}
	return entry, nil
}

// History returns up to limit entries, newest first.
func (e *Engine) History(ctx context.Context, limit int) ([]*models.SpinHistoryEntry, error) {
	return e.ledger.Recent(ctx, limit)
}

// userLocks hands out one mutex per user, dropping it once unused.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*userLock)}
}

func (l *userLocks) lock(user string) (unlock func()) {
	l.mu.Lock()
	ul, ok := l.locks[user]
	if !ok {
		ul = &userLock{}
		l.locks[user] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, user)
		}
		l.mu.Unlock()
	}
}
