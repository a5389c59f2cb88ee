// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package roulette

import (
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/dinnerroulette/internal/models"
)

// Pool is the result of filtering the catalog for one scope and day.
type Pool struct {
	Scope       models.Scope
	Weekday     time.Weekday
	Open        []*models.Restaurant
	ClosedToday []*models.Restaurant
}

// BuildPool returns the active restaurants matching scope, split into those
// open and those closed on now's weekday. Both lists are ordered by name.
// It does not modify its inputs.
func BuildPool(restaurants []*models.Restaurant, scope models.Scope, now time.Time) *Pool {
	p := &Pool{Scope: scope, Weekday: now.Weekday()}
	for _, r := range restaurants {
		if r == nil || !r.Active || !scope.MatchesRestaurant(r) {
			continue
		}
		if r.ClosedOn(p.Weekday) {
			p.ClosedToday = append(p.ClosedToday, r)
			continue
		}
		p.Open = append(p.Open, r)
	}
	sortByName(p.Open)
	sortByName(p.ClosedToday)
	return p
}

// ClosedNames returns the names of restaurants closed today.
func (p *Pool) ClosedNames() []string {
	names := make([]string, len(p.ClosedToday))
	for i, r := range p.ClosedToday {
		names[i] = r.Name
	}
	return names
}

func sortByName(rs []*models.Restaurant) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := strings.ToLower(rs[i].Name), strings.ToLower(rs[j].Name)
		if a != b {
			return a < b
		}
		return rs[i].ID < rs[j].ID
	})
}
