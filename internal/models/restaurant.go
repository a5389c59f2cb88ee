// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package models

import (
	"strings"
	"time"
)

// PlaceInfo is the optional metadata fetched from the places provider.
type PlaceInfo struct {
	PlaceID        string `json:"place_id,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	Website        string `json:"website,omitempty"`
	TravelDistance string `json:"travel_distance,omitempty"`
	TravelTime     string `json:"travel_time,omitempty"`
}

// Restaurant is a catalog record. Inactive restaurants are soft-deleted: they
// stay readable for history and backups but never enter a pool.
type Restaurant struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Categories []string   `json:"categories"`
	Distance   Distance   `json:"distance"`
	ClosedDays []int      `json:"closed_days"`
	Place      *PlaceInfo `json:"place,omitempty"`
	AddedBy    string     `json:"added_by,omitempty"`
	AddedAt    time.Time  `json:"added_at"`
	Active     bool       `json:"is_active"`
	RemovedBy  string     `json:"removed_by,omitempty"`
	RemovedAt  *time.Time `json:"removed_at,omitempty"`
}

// ClosedOn reports whether the restaurant is closed on the given weekday.
func (r *Restaurant) ClosedOn(day time.Weekday) bool {
	for _, d := range r.ClosedDays {
		if d == int(day) {
			return true
		}
	}
	return false
}

// HasCategory reports whether the restaurant carries category (case-insensitive).
func (r *Restaurant) HasCategory(category string) bool {
	for _, c := range r.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// PrimaryCategory is the first category, snapshotted into history entries.
func (r *Restaurant) PrimaryCategory() string {
	if len(r.Categories) == 0 {
		return ""
	}
	return r.Categories[0]
}

// Clone returns a deep copy so callers can mutate without aliasing store state.
func (r *Restaurant) Clone() *Restaurant {
	if r == nil {
		return nil
	}
	c := *r
	c.Categories = append([]string(nil), r.Categories...)
	c.ClosedDays = append([]int(nil), r.ClosedDays...)
	if r.Place != nil {
		p := *r.Place
		c.Place = &p
	}
	if r.RemovedAt != nil {
		t := *r.RemovedAt
		c.RemovedAt = &t
	}
	return &c
}

// UserStats counts a user's catalog contributions.
type UserStats struct {
	Username string `json:"username"`
	Added    int    `json:"restaurants_added"`
	Removed  int    `json:"restaurants_removed"`
}
