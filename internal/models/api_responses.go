// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package models

import "time"

// ErrorResponse is the body of every failed request.
//
//	{"success": false, "error": "Please wait 12 seconds before spinning again", "seconds_remaining": 12}
type ErrorResponse struct {
	Success          bool   `json:"success"`
	Error            string `json:"error"`
	SecondsRemaining int    `json:"seconds_remaining,omitempty"`
}

// MessageResponse acknowledges a mutation that returns no resource.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SpinResponse is returned by GET /api/randomize.
type SpinResponse struct {
	Success    bool        `json:"success"`
	Restaurant *Restaurant `json:"restaurant"`
	EntryID    int64       `json:"entry_id"`
}

// StatsResponse is returned by GET /api/randomize/stats.
type StatsResponse struct {
	Success bool `json:"success"`
	PoolStats
}

// HistoryResponse is returned by GET /api/history.
type HistoryResponse struct {
	Success bool               `json:"success"`
	History []SpinHistoryEntry `json:"history"`
	Count   int                `json:"count"`
}

// RestaurantResponse wraps a single catalog record.
type RestaurantResponse struct {
	Success    bool        `json:"success"`
	Restaurant *Restaurant `json:"restaurant"`
}

// RestaurantsResponse wraps a catalog listing.
type RestaurantsResponse struct {
	Success     bool          `json:"success"`
	Restaurants []*Restaurant `json:"restaurants"`
	Count       int           `json:"count"`
	Filters     Scope         `json:"filters"`
}

// CategoriesResponse is returned by GET /api/categories.
type CategoriesResponse struct {
	Success    bool     `json:"success"`
	Categories []string `json:"categories"`
	Default    []string `json:"default"`
	Custom     []string `json:"custom"`
}

// DistanceOption pairs a bucket with its display label.
type DistanceOption struct {
	Value Distance `json:"value"`
	Label string   `json:"label"`
}

// DistancesResponse is returned by GET /api/distances.
type DistancesResponse struct {
	Success   bool             `json:"success"`
	Distances []DistanceOption `json:"distances"`
	Default   Distance         `json:"default"`
}

// UserResponse reports the identity bound to the caller's cookie.
type UserResponse struct {
	Success bool   `json:"success"`
	Exists  bool   `json:"exists"`
	User    string `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
	// CooldownSecondsRemaining is how long the caller must wait to spin.
	CooldownSecondsRemaining int `json:"cooldown_seconds_remaining"`
}

// UserStatsResponse is returned by GET /api/user/{username}/stats.
type UserStatsResponse struct {
	Success bool `json:"success"`
	UserStats
}

// BackupResponse reports a written or restored snapshot.
type BackupResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	File        string `json:"file,omitempty"`
	Restaurants int    `json:"restaurants"`
	Categories  int    `json:"categories"`
}

// BackupInfo describes one backup file.
type BackupInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupsResponse is returned by GET /api/backups.
type BackupsResponse struct {
	Success bool         `json:"success"`
	Backups []BackupInfo `json:"backups"`
	Count   int          `json:"count"`
}

// PlaceSummary is one text-search hit from the places provider.
type PlaceSummary struct {
	PlaceID string   `json:"place_id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Rating  float64  `json:"rating,omitempty"`
	Types   []string `json:"types,omitempty"`

	// DistanceMeters is the straight-line distance from the configured
	// location, when one is set.
	DistanceMeters float64 `json:"distance_meters,omitempty"`
}

// PlacesSearchResponse is returned by GET /api/places/search.
type PlacesSearchResponse struct {
	Success bool           `json:"success"`
	Results []PlaceSummary `json:"results"`
}

// PlaceDetailsResponse is returned by GET /api/places/{place_id}.
type PlaceDetailsResponse struct {
	Success bool       `json:"success"`
	Name    string     `json:"name"`
	Place   *PlaceInfo `json:"place"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string  `json:"status"`
	Storage string  `json:"storage"`
	Backend string  `json:"backend"`
	Uptime  float64 `json:"uptime_seconds"`
}
