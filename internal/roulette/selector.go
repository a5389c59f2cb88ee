// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package roulette

import (
	"errors"

	"github.com/tomtom215/dinnerroulette/internal/models"
)

// ErrEmptyPool is returned when no open restaurant matches the scope.
var ErrEmptyPool = errors.New("no restaurants available")

// ReasonRecentlyPicked marks candidates excluded by recency.
const ReasonRecentlyPicked = "recently picked"

const baseWeight = 1

// Candidate is one open restaurant with its draw weight.
type Candidate struct {
	Restaurant *models.Restaurant
	Weight     int
	Excluded   bool
	Reason     string
}

// WeightedPool holds the candidates of one draw.
//
// TotalPoolSize counts every candidate at its nominal weight, excluded or
// not. DrawableWeight is the sum Draw actually samples from. When every
// candidate is excluded, Fallback is set and exclusion is lifted so a pool
// whose only members were just picked stays selectable.
type WeightedPool struct {
	Candidates     []Candidate
	TotalPoolSize  int
	DrawableWeight int
	Fallback       bool
}

// AssignWeights weights open candidates, zeroing any whose id is in recentIDs.
func AssignWeights(open []*models.Restaurant, recentIDs []string) *WeightedPool {
	recent := make(map[string]struct{}, len(recentIDs))
	for _, id := range recentIDs {
		recent[id] = struct{}{}
	}

	wp := &WeightedPool{Candidates: make([]Candidate, 0, len(open))}
	for _, r := range open {
		c := Candidate{Restaurant: r, Weight: baseWeight}
		if _, ok := recent[r.ID]; ok {
			c.Weight = 0
			c.Excluded = true
			c.Reason = ReasonRecentlyPicked
		}
		wp.TotalPoolSize += baseWeight
		wp.DrawableWeight += c.Weight
		wp.Candidates = append(wp.Candidates, c)
	}

	if wp.DrawableWeight == 0 && len(wp.Candidates) > 0 {
		wp.Fallback = true
		for i := range wp.Candidates {
			wp.Candidates[i].Weight = baseWeight
			wp.Candidates[i].Excluded = false
			wp.Candidates[i].Reason = ""
		}
		wp.DrawableWeight = wp.TotalPoolSize
	}
	return wp
}

// Excluded returns the candidates excluded from the draw, in pool order.
func (wp *WeightedPool) Excluded() []Candidate {
	var out []Candidate
	for _, c := range wp.Candidates {
		if c.Excluded {
			out = append(out, c)
		}
	}
	return out
}

// Draw picks one candidate with probability Weight/DrawableWeight. intn must
// return a uniform integer in [0, n).
func (wp *WeightedPool) Draw(intn func(n int) int) (*models.Restaurant, error) {
	if len(wp.Candidates) == 0 || wp.DrawableWeight <= 0 {
		return nil, ErrEmptyPool
	}

	target := intn(wp.DrawableWeight)
	cumulative := 0
	for _, c := range wp.Candidates {
		cumulative += c.Weight
		if target < cumulative {
			return c.Restaurant, nil
		}
	}
	// unreachable while intn honors its contract
	return nil, ErrEmptyPool
}
