// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package roulette

import (
	"math"

	"github.com/tomtom215/dinnerroulette/internal/models"
)

// BuildStats describes wp for display. Percentages are each candidate's
// chance of being drawn, rounded to one decimal; excluded candidates show 0
// while their nominal weight stays in TotalPoolSize. recentIDs orders the
// excluded names newest first.
func BuildStats(p *Pool, wp *WeightedPool, recentIDs []string) *models.PoolStats {
	st := &models.PoolStats{
		Filters:       p.Scope,
		ClosedToday:   p.ClosedNames(),
		TotalPoolSize: wp.TotalPoolSize,
		Items:         make([]models.PoolItem, 0, len(wp.Candidates)),
	}

	excluded := make(map[string]string)
	for _, c := range wp.Candidates {
		item := models.PoolItem{
			RestaurantID:   c.Restaurant.ID,
			Name:           c.Restaurant.Name,
			Count:          baseWeight,
			Weight:         c.Weight,
			Excluded:       c.Excluded,
			ExcludedReason: c.Reason,
		}
		if wp.DrawableWeight > 0 {
			item.Percentage = roundTenth(float64(c.Weight) * 100 / float64(wp.DrawableWeight))
		}
		st.Items = append(st.Items, item)

		if c.Excluded {
			excluded[c.Restaurant.ID] = c.Restaurant.Name
		}
	}

	for _, id := range recentIDs {
		if name, ok := excluded[id]; ok {
			st.ExcludedNames = append(st.ExcludedNames, name)
		}
	}

	if len(st.ExcludedNames) > 0 {
		st.Excluded = st.ExcludedNames[0]
		st.ExcludedReason = ReasonRecentlyPicked
	}
	return st
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
