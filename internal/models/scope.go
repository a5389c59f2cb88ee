// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package models

import "strings"

// Scope is the filter a spin or stats request runs under. Empty fields mean
// no constraint.
type Scope struct {
	Category string   `json:"category"`
	Distance Distance `json:"distance"`
}

// Matches reports whether a restaurant with the given categories and distance
// falls inside the scope. Distance is hierarchical: a limit admits its own
// bucket and every closer one.
func (s Scope) Matches(categories []string, d Distance) bool {
	if s.Category != "" {
		found := false
		for _, c := range categories {
			if strings.EqualFold(c, s.Category) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return d.Within(s.Distance)
}

// MatchesRestaurant is Matches applied to a catalog record.
func (s Scope) MatchesRestaurant(r *Restaurant) bool {
	return s.Matches(r.Categories, r.Distance)
}

// String renders the scope for logs and metric labels.
func (s Scope) String() string {
	c, d := s.Category, string(s.Distance)
	if c == "" {
		c = "all"
	}
	if d == "" {
		d = "all"
	}
	return c + "/" + d
}
