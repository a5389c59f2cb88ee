// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/dinnerroulette/internal/models"
)

// runConformance exercises the behavior every backend must share.
func runConformance(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()

	t.Run("CreateAndGetRestaurant", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		in := &models.Restaurant{
			Name:       "Taco Stand",
			Categories: []string{"quick"},
			Distance:   models.DistanceNearby,
			ClosedDays: []int{1},
			Active:     true,
		}
		created, err := s.CreateRestaurant(ctx, in)
		if err != nil {
			t.Fatalf("CreateRestaurant: %v", err)
		}
		if created.ID != "1" {
			t.Errorf("expected first id 1, got %q", created.ID)
		}
		if in.ID != "" {
			t.Error("CreateRestaurant must not mutate its argument")
		}

		got, err := s.GetRestaurant(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetRestaurant: %v", err)
		}
		if got.Name != "Taco Stand" || got.Distance != models.DistanceNearby || !got.ClosedOn(time.Monday) {
			t.Errorf("unexpected restaurant: %+v", got)
		}

		second, err := s.CreateRestaurant(ctx, &models.Restaurant{Name: "Pho", Categories: []string{"quick"}, Active: true})
		if err != nil {
			t.Fatalf("CreateRestaurant: %v", err)
		}
		if second.ID != "2" {
			t.Errorf("expected second id 2, got %q", second.ID)
		}
	})

	t.Run("GetRestaurantNotFound", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.GetRestaurant(context.Background(), "404"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("PutRestaurantAdvancesCounter", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if err := s.PutRestaurant(ctx, &models.Restaurant{ID: "7", Name: "Restored", Categories: []string{"nice"}}); err != nil {
			t.Fatalf("PutRestaurant: %v", err)
		}
		created, err := s.CreateRestaurant(ctx, &models.Restaurant{Name: "Fresh", Categories: []string{"nice"}})
		if err != nil {
			t.Fatalf("CreateRestaurant: %v", err)
		}
		if created.ID != "8" {
			t.Errorf("expected id 8 after restoring id 7, got %q", created.ID)
		}

		list, err := s.ListRestaurants(ctx)
		if err != nil {
			t.Fatalf("ListRestaurants: %v", err)
		}
		if len(list) != 2 || list[0].ID != "7" || list[1].ID != "8" {
			t.Errorf("unexpected listing: %+v", list)
		}
	})

	t.Run("Categories", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		added, err := s.AddCategory(ctx, "brunch")
		if err != nil || !added {
			t.Fatalf("AddCategory first = (%v, %v), want (true, nil)", added, err)
		}
		added, err = s.AddCategory(ctx, "brunch")
		if err != nil || added {
			t.Fatalf("AddCategory duplicate = (%v, %v), want (false, nil)", added, err)
		}
		if _, err := s.AddCategory(ctx, "bbq"); err != nil {
			t.Fatal(err)
		}
		cats, err := s.ListCategories(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(cats) != 2 || cats[0] != "bbq" || cats[1] != "brunch" {
			t.Errorf("expected [bbq brunch], got %v", cats)
		}
	})

	t.Run("LedgerAppendAndRecent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		base := time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC)

		for i, name := range []string{"A", "B", "C"} {
			e := &models.SpinHistoryEntry{RestaurantID: name, RestaurantName: name, Username: "alice", Timestamp: base.Add(time.Duration(i) * time.Minute)}
			id, err := s.AppendEntry(ctx, e)
			if err != nil {
				t.Fatalf("AppendEntry: %v", err)
			}
			if id != int64(i+1) || e.ID != id {
				t.Errorf("expected id %d, got %d (entry %d)", i+1, id, e.ID)
			}
		}

		recent, err := s.RecentEntries(ctx, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(recent) != 2 || recent[0].RestaurantName != "C" || recent[1].RestaurantName != "B" {
			t.Errorf("expected [C B], got %+v", recent)
		}

		var seen []string
		if err := s.ScanEntries(ctx, func(e *models.SpinHistoryEntry) bool {
			seen = append(seen, e.RestaurantName)
			return true
		}); err != nil {
			t.Fatal(err)
		}
		if len(seen) != 3 || seen[0] != "C" || seen[2] != "A" {
			t.Errorf("expected newest-first scan, got %v", seen)
		}

		empty, err := s.RecentEntries(ctx, 0)
		if err != nil || len(empty) != 0 {
			t.Errorf("RecentEntries(0) = (%v, %v)", empty, err)
		}
	})

	t.Run("LedgerConcurrentAppendKeepsOrder", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const workers, perWorker = 4, 5
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					e := &models.SpinHistoryEntry{RestaurantID: "1", RestaurantName: "A", Username: string(rune('a' + w))}
					if _, err := s.AppendEntry(ctx, e); err != nil {
						t.Errorf("AppendEntry: %v", err)
						return
					}
				}
			}(w)
		}
		wg.Wait()

		recent, err := s.RecentEntries(ctx, workers*perWorker)
		if err != nil {
			t.Fatal(err)
		}
		if len(recent) != workers*perWorker {
			t.Fatalf("got %d entries, want %d", len(recent), workers*perWorker)
		}
		for i, e := range recent {
			if want := int64(workers*perWorker - i); e.ID != want {
				t.Fatalf("entry %d has id %d, want %d (newest first)", i, e.ID, want)
			}
		}
	})

	t.Run("MarkWentIdempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.AppendEntry(ctx, &models.SpinHistoryEntry{RestaurantID: "1", RestaurantName: "A", Timestamp: time.Now()})
		if err != nil {
			t.Fatal(err)
		}

		e, changed, err := s.MarkWent(ctx, id)
		if err != nil || !changed || !e.Went {
			t.Fatalf("first MarkWent = (%+v, %v, %v)", e, changed, err)
		}
		e, changed, err = s.MarkWent(ctx, id)
		if err != nil || changed || !e.Went {
			t.Fatalf("second MarkWent = (%+v, %v, %v)", e, changed, err)
		}

		got, err := s.GetEntry(ctx, id)
		if err != nil || !got.Went {
			t.Errorf("GetEntry after MarkWent = (%+v, %v)", got, err)
		}

		if _, _, err := s.MarkWent(ctx, 999); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown entry, got %v", err)
		}
	})

	t.Run("CooldownCompareAndSwap", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		t1 := time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC)
		t2 := t1.Add(time.Minute)

		if _, ok, err := s.LastSpin(ctx, "alice"); err != nil || ok {
			t.Fatalf("LastSpin on empty store = (%v, %v)", ok, err)
		}

		swapped, err := s.CompareAndSwapLastSpin(ctx, "alice", time.Time{}, t1)
		if err != nil || !swapped {
			t.Fatalf("initial swap = (%v, %v)", swapped, err)
		}
		swapped, err = s.CompareAndSwapLastSpin(ctx, "alice", time.Time{}, t2)
		if err != nil || swapped {
			t.Fatalf("swap from absent on present key = (%v, %v), want false", swapped, err)
		}

		last, ok, err := s.LastSpin(ctx, "alice")
		if err != nil || !ok || !last.Equal(t1) {
			t.Fatalf("LastSpin = (%v, %v, %v), want %v", last, ok, err, t1)
		}

		swapped, err = s.CompareAndSwapLastSpin(ctx, "alice", last, t2)
		if err != nil || !swapped {
			t.Fatalf("swap t1->t2 = (%v, %v)", swapped, err)
		}
		swapped, err = s.CompareAndSwapLastSpin(ctx, "alice", t1, t2)
		if err != nil || swapped {
			t.Fatalf("stale swap = (%v, %v), want false", swapped, err)
		}

		swapped, err = s.CompareAndSwapLastSpin(ctx, "alice", t2, time.Time{})
		if err != nil || !swapped {
			t.Fatalf("delete swap = (%v, %v)", swapped, err)
		}
		if _, ok, _ := s.LastSpin(ctx, "alice"); ok {
			t.Error("expected timestamp deleted")
		}
	})

	t.Run("CooldownConcurrentSingleWinner", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		now := time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC)

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ok, err := s.CompareAndSwapLastSpin(ctx, "bob", time.Time{}, now.Add(time.Duration(i)))
				if err != nil {
					t.Errorf("swap: %v", err)
					return
				}
				if ok {
					wins.Add(1)
				}
			}(i)
		}
		wg.Wait()

		if wins.Load() != 1 {
			t.Errorf("expected exactly one winner, got %d", wins.Load())
		}
	})
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	runConformance(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestBadgerStore(t *testing.T) {
	t.Parallel()
	runConformance(t, func(t *testing.T) Store {
		s, err := OpenBadgerStore(t.TempDir(), false)
		if err != nil {
			t.Fatalf("open badger: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadgerStore(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateRestaurant(ctx, &models.Restaurant{Name: "Diner", Categories: []string{"quick"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AppendEntry(ctx, &models.SpinHistoryEntry{RestaurantID: "1", RestaurantName: "Diner"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = OpenBadgerStore(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	r, err := s.GetRestaurant(ctx, "1")
	if err != nil || r.Name != "Diner" {
		t.Errorf("GetRestaurant after reopen = (%+v, %v)", r, err)
	}
	next, err := s.AppendEntry(ctx, &models.SpinHistoryEntry{RestaurantID: "1"})
	if err != nil || next != 2 {
		t.Errorf("expected history id 2 after reopen, got (%d, %v)", next, err)
	}
}

func TestBadgerStore_PingAfterClose(t *testing.T) {
	t.Parallel()

	s, err := OpenBadgerStore("", true)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping on open store: %v", err)
	}
	_ = s.Close()
	if err := s.Ping(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestOpen_Backends(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := Open(ctx, Config{})
	if err != nil || s.Backend() != BackendMemory {
		t.Errorf("Open default = (%v, %v), want memory", s, err)
	}

	s, err = Open(ctx, Config{Backend: BackendBadger, BadgerInMemory: true})
	if err != nil || s.Backend() != BackendBadger {
		t.Fatalf("Open badger = (%v, %v)", s, err)
	}
	_ = s.Close()

	if _, err := Open(ctx, Config{Backend: "etcd"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := Open(ctx, Config{Backend: BackendRedis}); err == nil {
		t.Error("expected error for redis without address")
	}
}
