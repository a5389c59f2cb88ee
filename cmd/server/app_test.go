// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dinnerroulette/internal/backup"
	"github.com/tomtom215/dinnerroulette/internal/config"
	"github.com/tomtom215/dinnerroulette/internal/logging"
	"github.com/tomtom215/dinnerroulette/internal/models"
	"github.com/tomtom215/dinnerroulette/internal/supervisor"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: time.Second,
			Environment:     "development",
		},
		Roulette: config.RouletteConfig{
			SpinCooldown:        30 * time.Second,
			ExcludeRecent:       1,
			HistoryDefaultLimit: 20,
			HistoryMaxLimit:     50,
			Timezone:            "UTC",
		},
		Storage: config.StorageConfig{Backend: "memory"},
		Security: config.SecurityConfig{
			CookieName:      "dinner_roulette_user",
			CookieMaxAge:    24 * time.Hour,
			IdentitySecret:  "0123456789abcdef0123456789abcdef",
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Backup: config.BackupConfig{
			Enabled:    true,
			Dir:        t.TempDir(),
			MaxBackups: 5,
			AutoBackup: true,
		},
		Logging:    config.LoggingConfig{Level: "error", Format: "json"},
		Categories: config.CategoriesConfig{Defaults: []string{"quick", "sit-down", "nice"}},
	}
}

func postJSON(t *testing.T, c *http.Client, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := c.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestApp_EndToEnd(t *testing.T) {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	cfg := testConfig(t)
	a, err := newApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.close()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{ShutdownTimeout: time.Second})
	a.supervise(tree)
	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-done
	}()

	srv := httptest.NewServer(a.server.Handler)
	defer srv.Close()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar, Timeout: 5 * time.Second}

	resp := postJSON(t, client, srv.URL+"/api/user/register", map[string]string{"first_name": "Alice"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register status = %d", resp.StatusCode)
	}

	resp = postJSON(t, client, srv.URL+"/api/restaurants", map[string]any{
		"name":       "Pizza Place",
		"categories": []string{"quick"},
		"distance":   "nearby",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/api/randomize")
	if err != nil {
		t.Fatal(err)
	}
	var spin models.SpinResponse
	if err := json.NewDecoder(resp.Body).Decode(&spin); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if !spin.Success || spin.Restaurant == nil || spin.Restaurant.Name != "Pizza Place" {
		t.Errorf("spin = %+v", spin)
	}

	// the catalog change schedules a backup through the supervised scheduler
	latest := filepath.Join(cfg.Backup.Dir, backup.LatestName)
	deadline := time.Now().Add(3 * time.Second)
	for {
		if _, err := os.Stat(latest); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("automatic backup was not written")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNewApp_InvalidTimezone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Roulette.Timezone = "Mars/Olympus_Mons"
	if _, err := newApp(context.Background(), cfg); err == nil {
		t.Fatal("expected timezone error")
	}
}

func TestNewApp_PlacesDisabledIgnoresKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.Places = config.PlacesConfig{Enabled: false, APIKey: "secret"}
	a, err := newApp(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer a.close()
	if a.places.Enabled() {
		t.Error("places client should be disabled")
	}
}
