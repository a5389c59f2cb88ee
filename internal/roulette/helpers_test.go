// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package roulette

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/dinnerroulette/internal/models"
	"github.com/tomtom215/dinnerroulette/internal/store"
)

// tuesday is 2026-03-03, a Tuesday, at 18:00 UTC.
var tuesday = time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(eventType string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func restaurant(id, name string, cats []string, d models.Distance, closed ...int) *models.Restaurant {
	return &models.Restaurant{
		ID:         id,
		Name:       name,
		Categories: cats,
		Distance:   d,
		ClosedDays: closed,
		Active:     true,
	}
}

// seedStore puts rs into a fresh memory store under their own ids.
func seedStore(t *testing.T, rs ...*models.Restaurant) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	for _, r := range rs {
		if err := st.PutRestaurant(context.Background(), r); err != nil {
			t.Fatalf("seed %s: %v", r.Name, err)
		}
	}
	return st
}

// tuesdayCatalog is A and C (pizza) plus B (sushi), with C closed on Tuesdays.
func tuesdayCatalog() []*models.Restaurant {
	return []*models.Restaurant{
		restaurant("1", "A", []string{"pizza"}, models.DistanceNearby),
		restaurant("2", "B", []string{"sushi"}, models.DistanceShortDrive),
		restaurant("3", "C", []string{"pizza"}, models.DistanceFar, int(time.Tuesday)),
	}
}

func newTestEngine(t *testing.T, cfg Config, clock *fakeClock, rs ...*models.Restaurant) (*Engine, *store.MemoryStore) {
	t.Helper()
	st := seedStore(t, rs...)
	eng := NewEngine(st, st, st, cfg, WithClock(clock.Now))
	return eng, st
}

// firstIndex always draws the lowest cumulative slot.
func firstIndex(int) int { return 0 }

// lastIndex always draws the highest cumulative slot.
func lastIndex(n int) int { return n - 1 }
