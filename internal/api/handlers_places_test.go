// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/tomtom215/dinnerroulette/internal/models"
	"github.com/tomtom215/dinnerroulette/internal/places"
)

type stubPlaces struct {
	results   []models.PlaceSummary
	err       error
	lastLimit int
}

func (s *stubPlaces) Search(_ context.Context, _ string, maxResults int) ([]models.PlaceSummary, error) {
	s.lastLimit = maxResults
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *stubPlaces) Details(_ context.Context, placeID string) (*places.Details, error) {
	if s.err != nil {
		return nil, s.err
	}
	if placeID != "abc" {
		return nil, places.ErrNotFound
	}
	return &places.Details{
		Name: "Pho Place",
		Info: &models.PlaceInfo{PlaceID: "abc", Phone: "555-0100", TravelDistance: "2.0 mi", TravelTime: "10 min"},
	}, nil
}

func TestSearchPlaces(t *testing.T) {
	stub := &stubPlaces{results: []models.PlaceSummary{{PlaceID: "abc", Name: "Pho Place"}}}
	s := newTestServer(t, serverOptions{places: stub})

	rec := s.do(http.MethodGet, "/api/places/search?q=pho", "", "")
	expectStatus(t, rec, http.StatusOK)
	resp := decode[models.PlacesSearchResponse](t, rec)
	if len(resp.Results) != 1 || resp.Results[0].Name != "Pho Place" {
		t.Errorf("results = %+v", resp.Results)
	}
	if stub.lastLimit != places.DefaultMaxResults {
		t.Errorf("limit = %d, want default", stub.lastLimit)
	}

	s.do(http.MethodGet, "/api/places/search?q=pho&limit=500", "", "")
	if stub.lastLimit != maxPlaceResults {
		t.Errorf("limit = %d, want clamp to %d", stub.lastLimit, maxPlaceResults)
	}

	expectStatus(t, s.do(http.MethodGet, "/api/places/search?q=p", "", ""), http.StatusBadRequest)
}

func TestSearchPlaces_NoResultsIsEmptyList(t *testing.T) {
	s := newTestServer(t, serverOptions{places: &stubPlaces{}})
	rec := s.do(http.MethodGet, "/api/places/search?q=nothing+here", "", "")
	expectStatus(t, rec, http.StatusOK)
	if body := rec.Body.String(); body != `{"success":true,"results":[]}` {
		t.Errorf("body = %s", body)
	}
}

func TestPlaceDetails(t *testing.T) {
	s := newTestServer(t, serverOptions{places: &stubPlaces{}})

	rec := s.do(http.MethodGet, "/api/places/abc", "", "")
	expectStatus(t, rec, http.StatusOK)
	resp := decode[models.PlaceDetailsResponse](t, rec)
	if resp.Name != "Pho Place" || resp.Place == nil || resp.Place.TravelTime != "10 min" {
		t.Errorf("details = %+v", resp)
	}

	expectError(t, s.do(http.MethodGet, "/api/places/zzz", "", ""), http.StatusNotFound, "Place not found")
}

func TestPlaces_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		svc    PlacesService
		status int
	}{
		{"not configured", nil, http.StatusServiceUnavailable},
		{"disabled client", &stubPlaces{err: places.ErrDisabled}, http.StatusServiceUnavailable},
		{"upstream failure", &stubPlaces{err: errors.Join(places.ErrUpstream, errors.New("OVER_QUERY_LIMIT"))}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, serverOptions{places: tt.svc})
			expectStatus(t, s.do(http.MethodGet, "/api/places/search?q=pho", "", ""), tt.status)
			expectStatus(t, s.do(http.MethodGet, "/api/places/abc", "", ""), tt.status)
		})
	}
}
