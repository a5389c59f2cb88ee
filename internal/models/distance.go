// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package models

import "strings"

// Distance is a coarse travel-distance bucket.
type Distance string

const (
	DistanceNearby      Distance = "nearby"
	DistanceShortDrive  Distance = "short-drive"
	DistanceMediumDrive Distance = "medium-drive"
	DistanceFar         Distance = "far"
)

// Distances lists the buckets from closest to farthest.
var Distances = []Distance{DistanceNearby, DistanceShortDrive, DistanceMediumDrive, DistanceFar}

// DefaultDistanceHint is the bucket clients preselect. The engine never applies it.
const DefaultDistanceHint = DistanceNearby

var distanceLabels = map[Distance]string{
	DistanceNearby:      "Nearby",
	DistanceShortDrive:  "Short Drive",
	DistanceMediumDrive: "Medium Drive",
	DistanceFar:         "Far",
}

// ParseDistance normalizes s into a Distance. An empty string parses to the
// empty Distance, meaning no distance constraint.
func ParseDistance(s string) (Distance, bool) {
	d := Distance(strings.ToLower(strings.TrimSpace(s)))
	if d == "" {
		return "", true
	}
	return d, d.Valid()
}

// Valid reports whether d is one of the known buckets.
func (d Distance) Valid() bool {
	return d.Rank() >= 0
}

// Rank returns the bucket's position from closest (0) to farthest, or -1.
func (d Distance) Rank() int {
	for i, b := range Distances {
		if b == d {
			return i
		}
	}
	return -1
}

// Within reports whether d is no farther than limit. An empty limit admits
// every bucket.
func (d Distance) Within(limit Distance) bool {
	if limit == "" {
		return true
	}
	r := d.Rank()
	return r >= 0 && r <= limit.Rank()
}

// Label returns the human-readable bucket name.
func (d Distance) Label() string {
	if l, ok := distanceLabels[d]; ok {
		return l
	}
	return string(d)
}
