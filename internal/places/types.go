// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package places

// Provider status values.
const (
	statusOK             = "OK"
	statusZeroResults    = "ZERO_RESULTS"
	statusNotFound       = "NOT_FOUND"
	statusInvalidRequest = "INVALID_REQUEST"
)

type geometry struct {
	Location latLng `json:"location"`
}

type placeResult struct {
	PlaceID          string    `json:"place_id"`
	Name             string    `json:"name"`
	FormattedAddress string    `json:"formatted_address"`
	Rating           float64   `json:"rating"`
	Types            []string  `json:"types"`
	Geometry         *geometry `json:"geometry"`
}

type textSearchResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Results      []placeResult `json:"results"`
}

type detailsResult struct {
	Name                 string    `json:"name"`
	FormattedPhoneNumber string    `json:"formatted_phone_number"`
	FormattedAddress     string    `json:"formatted_address"`
	Website              string    `json:"website"`
	URL                  string    `json:"url"`
	Geometry             *geometry `json:"geometry"`
}

type detailsResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Result       detailsResult `json:"result"`
}

type valueText struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

type matrixElement struct {
	Status   string     `json:"status"`
	Distance *valueText `json:"distance"`
	Duration *valueText `json:"duration"`
}

type matrixRow struct {
	Elements []matrixElement `json:"elements"`
}

type distanceMatrixResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
	Rows         []matrixRow `json:"rows"`
}
