// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (m *manualClock) now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

func (m *manualClock) advance(d time.Duration) {
	m.mu.Lock()
	m.t = m.t.Add(d)
	m.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Cache, *manualClock) {
	clock := &manualClock{t: time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)}
	return newCache("test", ttl, clock.now), clock
}

func TestCacheBasicOperations(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists || value != "value1" {
		t.Errorf("Get(key1) = %v, %v", value, exists)
	}
	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.TotalKeys != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if rate := c.HitRate(); rate != 50 {
		t.Errorf("HitRate = %v, want 50", rate)
	}
}

func TestCacheExpiration(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("key1", "value1")
	c.SetWithTTL("key2", "value2", time.Hour)

	clock.advance(2 * time.Minute)

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if _, exists := c.Get("key2"); !exists {
		t.Error("Expected key2 to survive with its longer TTL")
	}
	if ev := c.GetStats().Evictions; ev != 1 {
		t.Errorf("Evictions = %d, want 1", ev)
	}
}

func TestCacheCleanup(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	c.SetWithTTL("keep", true, time.Hour)

	clock.advance(5 * time.Minute)
	c.cleanup()

	stats := c.GetStats()
	if stats.TotalKeys != 1 || stats.Evictions != 5 {
		t.Errorf("after cleanup stats = %+v", stats)
	}
	if !stats.LastCleanup.Equal(clock.now()) {
		t.Errorf("LastCleanup = %v", stats.LastCleanup)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	c.Delete("key1")
	c.Delete("missing")
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be deleted")
	}

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	if stats := c.GetStats(); stats.TotalKeys != 0 || stats.Evictions != 3 {
		t.Errorf("stats after clear = %+v", stats)
	}
}

func TestCacheClose(t *testing.T) {
	c := New("close-test", time.Minute)
	c.Close()
	c.Close()

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Error("cache should stay usable after Close")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%4)
			for j := 0; j < 100; j++ {
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if n := c.GetStats().TotalKeys; n != 4 {
		t.Errorf("TotalKeys = %d, want 4", n)
	}
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		Query  string
		Radius int
	}
	k1 := GenerateKey("search", params{"tacos", 100})
	k2 := GenerateKey("search", params{"tacos", 100})
	k3 := GenerateKey("search", params{"tacos", 200})
	k4 := GenerateKey("details", params{"tacos", 100})

	if k1 != k2 {
		t.Error("same input should give the same key")
	}
	if k1 == k3 || k1 == k4 {
		t.Error("different input should give different keys")
	}
}
