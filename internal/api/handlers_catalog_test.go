// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package api

import (
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/tomtom215/dinnerroulette/internal/auth"
	"github.com/tomtom215/dinnerroulette/internal/models"
)

func TestRestaurants_Lifecycle(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	rec := s.do(http.MethodPost, "/api/restaurants",
		`{"name":"Taco Stand","categories":["quick"],"distance":"nearby","closed_days":[1]}`, "Alice")
	expectStatus(t, rec, http.StatusCreated)
	created := decode[models.RestaurantResponse](t, rec).Restaurant
	if created == nil || created.ID == "" || created.AddedBy != "Alice" || !created.Active {
		t.Fatalf("created = %+v", created)
	}
	path := "/api/restaurants/" + created.ID

	rec = s.do(http.MethodPut, path, `{"distance":"far"}`, "Bob")
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.RestaurantResponse](t, rec).Restaurant; got.Distance != models.DistanceFar || got.Name != "Taco Stand" {
		t.Errorf("updated = %+v", got)
	}

	list := decode[models.RestaurantsResponse](t, s.do(http.MethodGet, "/api/restaurants?distance=medium-drive", "", ""))
	if list.Count != 0 || list.Filters.Distance != models.DistanceMediumDrive {
		t.Errorf("medium-drive list = %+v", list)
	}
	list = decode[models.RestaurantsResponse](t, s.do(http.MethodGet, "/api/restaurants", "", ""))
	if list.Count != 1 {
		t.Errorf("list count = %d, want 1", list.Count)
	}

	rec = s.do(http.MethodDelete, path, "", "Alice")
	expectStatus(t, rec, http.StatusOK)

	list = decode[models.RestaurantsResponse](t, s.do(http.MethodGet, "/api/restaurants", "", ""))
	if list.Count != 0 {
		t.Errorf("removed restaurant still listed")
	}
	rec = s.do(http.MethodGet, path, "", "")
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.RestaurantResponse](t, rec).Restaurant; got.Active || got.RemovedBy != "Alice" {
		t.Errorf("removed restaurant = %+v", got)
	}

	expectError(t, s.do(http.MethodDelete, path, "", "Alice"), http.StatusNotFound, "Restaurant not found")
	expectError(t, s.do(http.MethodPut, path, `{"name":"Tacos"}`, "Alice"), http.StatusNotFound, "Restaurant not found")

	stats := decode[models.UserStatsResponse](t, s.do(http.MethodGet, "/api/user/Alice/stats", "", ""))
	if stats.Added != 1 || stats.Removed != 1 {
		t.Errorf("Alice stats = %+v", stats.UserStats)
	}
}

func TestRestaurants_CreateRejects(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	expectStatus(t, s.do(http.MethodPost, "/api/restaurants", `{"name":"Taco Stand","categories":["quick"]}`, "Alice"),
		http.StatusCreated)

	tests := []struct {
		name   string
		body   string
		user   string
		status int
		prefix string
	}{
		{"anonymous", `{"name":"Pho","categories":["quick"]}`, "", http.StatusUnauthorized, auth.MsgNotRegistered},
		{"duplicate", `{"name":"taco stand","categories":["quick"]}`, "Alice", http.StatusConflict, "A restaurant with this name already exists"},
		{"short name", `{"name":"X","categories":["quick"]}`, "Alice", http.StatusBadRequest, ""},
		{"no categories", `{"name":"Pho Place","categories":[]}`, "Alice", http.StatusBadRequest, ""},
		{"unknown category", `{"name":"Pho Place","categories":["thai"]}`, "Alice", http.StatusBadRequest, "Unknown category"},
		{"bad weekday", `{"name":"Pho Place","categories":["quick"],"closed_days":[7]}`, "Alice", http.StatusBadRequest, ""},
		{"empty body", "", "Alice", http.StatusBadRequest, "Request body is required"},
		{"malformed", "{", "Alice", http.StatusBadRequest, "Malformed JSON body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/restaurants", tt.body, tt.user)
			expectStatus(t, rec, tt.status)
			resp := decode[models.ErrorResponse](t, rec)
			if !strings.HasPrefix(resp.Error, tt.prefix) {
				t.Errorf("error = %q, want prefix %q", resp.Error, tt.prefix)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	rec := s.do(http.MethodPost, "/api/categories", `{"name":" Brunch "}`, "Alice")
	expectStatus(t, rec, http.StatusCreated)
	if msg := decode[models.MessageResponse](t, rec).Message; msg != "Added category 'brunch'" {
		t.Errorf("message = %q", msg)
	}

	expectError(t, s.do(http.MethodPost, "/api/categories", `{"name":"brunch"}`, "Alice"),
		http.StatusBadRequest, "Category already exists")
	expectError(t, s.do(http.MethodPost, "/api/categories", `{"name":"quick"}`, "Alice"),
		http.StatusBadRequest, "Category already exists")
	expectStatus(t, s.do(http.MethodPost, "/api/categories", `{"name":"b"}`, "Alice"), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodPost, "/api/categories", `{"name":"tapas"}`, ""), http.StatusUnauthorized)

	cats := decode[models.CategoriesResponse](t, s.do(http.MethodGet, "/api/categories", "", ""))
	if !slices.Equal(cats.Custom, []string{"brunch"}) {
		t.Errorf("custom = %v", cats.Custom)
	}
	if len(cats.Categories) != len(cats.Default)+1 || !slices.Contains(cats.Categories, "quick") {
		t.Errorf("categories = %v", cats.Categories)
	}

	// the new category is usable right away
	expectStatus(t, s.do(http.MethodPost, "/api/restaurants", `{"name":"Egg House","categories":["brunch"]}`, "Alice"),
		http.StatusCreated)
}

func TestDistances(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	resp := decode[models.DistancesResponse](t, s.do(http.MethodGet, "/api/distances", "", ""))

	if resp.Default != models.DistanceNearby {
		t.Errorf("default = %q", resp.Default)
	}
	want := []models.DistanceOption{
		{Value: models.DistanceNearby, Label: "Nearby"},
		{Value: models.DistanceShortDrive, Label: "Short Drive"},
		{Value: models.DistanceMediumDrive, Label: "Medium Drive"},
		{Value: models.DistanceFar, Label: "Far"},
	}
	if !slices.Equal(resp.Distances, want) {
		t.Errorf("distances = %+v", resp.Distances)
	}
}
