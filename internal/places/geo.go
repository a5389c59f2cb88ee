// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package places

import (
	"fmt"
	"math"
	"strconv"
)

const (
	earthRadiusMeters = 6371000.0
	metersPerMile     = 1609.344

	// cityDriveMPH is the average speed used when no driving time is known.
	cityDriveMPH = 35.0
)

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p latLng) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

// haversine returns the great-circle distance in meters.
func haversine(a, b latLng) float64 {
	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func estimateDriveSeconds(meters float64) float64 {
	return meters / metersPerMile / cityDriveMPH * 3600
}

func formatMiles(meters float64) string {
	return fmt.Sprintf("%.1f mi", meters/metersPerMile)
}

func formatMinutes(seconds float64) string {
	return fmt.Sprintf("%d min", int(seconds/60))
}
