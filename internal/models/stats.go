// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package models

// PoolItem is one restaurant in a stats view. Count is its nominal weight,
// counted in TotalPoolSize even when excluded; Weight is what the draw uses
// (0 when excluded). Percentage is its chance of being drawn, rounded to one
// decimal.
type PoolItem struct {
	RestaurantID   string  `json:"restaurant_id"`
	Name           string  `json:"name"`
	Count          int     `json:"count"`
	Weight         int     `json:"weight"`
	Percentage     float64 `json:"percentage"`
	Excluded       bool    `json:"excluded"`
	ExcludedReason string  `json:"excluded_reason,omitempty"`
}

// PoolStats describes the pool a spin under Filters would draw from.
// TotalPoolSize counts excluded items at their nominal weight.
type PoolStats struct {
	Filters        Scope      `json:"filters"`
	Excluded       string     `json:"excluded,omitempty"`
	ExcludedReason string     `json:"excluded_reason,omitempty"`
	ExcludedNames  []string   `json:"excluded_names,omitempty"`
	ClosedToday    []string   `json:"closed_today"`
	TotalPoolSize  int        `json:"total_pool_size"`
	Items          []PoolItem `json:"items"`
}
