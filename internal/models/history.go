// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package models

import "time"

// SpinHistoryEntry records one successful spin. Categories and Distance are
// snapshots taken at spin time so scope matching does not depend on later
// catalog edits.
type SpinHistoryEntry struct {
	ID             int64     `json:"id"`
	RestaurantID   string    `json:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name"`
	Category       string    `json:"category"`
	Categories     []string  `json:"categories,omitempty"`
	Distance       Distance  `json:"distance,omitempty"`
	Username       string    `json:"username"`
	Timestamp      time.Time `json:"timestamp"`
	Went           bool      `json:"went"`
}

// MatchesScope reports whether the restaurant matched s when it was picked.
func (e *SpinHistoryEntry) MatchesScope(s Scope) bool {
	cats := e.Categories
	if len(cats) == 0 && e.Category != "" {
		cats = []string{e.Category}
	}
	return s.Matches(cats, e.Distance)
}
