// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dinnerroulette/internal/auth"
	"github.com/tomtom215/dinnerroulette/internal/backup"
	"github.com/tomtom215/dinnerroulette/internal/catalog"
	"github.com/tomtom215/dinnerroulette/internal/config"
	"github.com/tomtom215/dinnerroulette/internal/logging"
	"github.com/tomtom215/dinnerroulette/internal/models"
	"github.com/tomtom215/dinnerroulette/internal/roulette"
	"github.com/tomtom215/dinnerroulette/internal/store"
)

//nolint:gochecknoinits // keep test output quiet
func init() {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
}

const (
	testCookie = "dinner_roulette_user"
	testSecret = "0123456789abcdef0123456789abcdef"
)

// tuesday is 2026-03-03, a Tuesday, at 18:00 UTC.
var tuesday = time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

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

type testServer struct {
	t        *testing.T
	clock    *fakeClock
	store    *store.MemoryStore
	identity *auth.Identity
	handler  http.Handler
}

type serverOptions struct {
	backups   bool
	places    PlacesService
	health    HealthChecker
	rateLimit int
}

func newTestServer(t *testing.T, opts serverOptions, seed ...*models.Restaurant) *testServer {
	t.Helper()
	ctx := context.Background()

	clock := &fakeClock{t: tuesday}
	st := store.NewMemoryStore()
	for _, r := range seed {
		if err := st.PutRestaurant(ctx, r); err != nil {
			t.Fatalf("seed %s: %v", r.Name, err)
		}
	}

	sec := config.SecurityConfig{
		CookieName:        testCookie,
		CookieMaxAge:      24 * time.Hour,
		IdentitySecret:    testSecret,
		RateLimitReqs:     opts.rateLimit,
		RateLimitWindow:   time.Minute,
		RateLimitDisabled: opts.rateLimit == 0,
	}
	identity := auth.NewIdentity(sec)

	engine := roulette.NewEngine(st, st, st,
		roulette.Config{Cooldown: 30 * time.Second, ExcludeRecent: 1},
		roulette.WithClock(clock.Now),
		roulette.WithRand(func(int) int { return 0 }),
	)
	cat := catalog.NewService(st, []string{"quick", "sit-down", "nice", "pizza", "sushi"},
		catalog.WithClock(clock.Now))

	health := opts.health
	if health == nil {
		health = st
	}
	var backups BackupService
	if opts.backups {
		backups = newBackupManager(t, st, clock)
	}
	h := NewHandler(engine, cat, identity, backups, opts.places, health, HistoryLimits{Default: 20, Max: 50})
	router := NewRouter(h, identity, NewChiMiddleware(ChiMiddlewareConfigFromSecurity(sec)), nil)

	return &testServer{
		t:        t,
		clock:    clock,
		store:    st,
		identity: identity,
		handler:  router.Handler(),
	}
}

// do sends a request as user; an empty user is anonymous.
func (s *testServer) do(method, path, body, user string) *httptest.ResponseRecorder {
	s.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		value, err := s.identity.Issue(user)
		if err != nil {
			s.t.Fatalf("issue cookie: %v", err)
		}
		req.AddCookie(&http.Cookie{Name: testCookie, Value: value})
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	expectStatus(t, rec, status)
	resp := decode[models.ErrorResponse](t, rec)
	if resp.Success {
		t.Error("success = true on error response")
	}
	if message != "" && resp.Error != message {
		t.Errorf("error = %q, want %q", resp.Error, message)
	}
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

// tuesdayCatalog is A and C (pizza) plus B (sushi), with C closed on Tuesdays.
func tuesdayCatalog() []*models.Restaurant {
	return []*models.Restaurant{
		restaurant("1", "A", []string{"pizza"}, models.DistanceNearby),
		restaurant("2", "B", []string{"sushi"}, models.DistanceShortDrive),
		restaurant("3", "C", []string{"pizza"}, models.DistanceFar, int(time.Tuesday)),
	}
}

// newBackupManager returns an enabled manager over st writing to a temp dir.
func newBackupManager(t *testing.T, st store.Catalog, clock *fakeClock) *backup.Manager {
	t.Helper()
	m, err := backup.NewManager(backup.Config{Enabled: true, Dir: t.TempDir(), MaxBackups: 5}, st,
		backup.WithClock(clock.Now))
	if err != nil {
		t.Fatal(err)
	}
	return m
}
