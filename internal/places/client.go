// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

// Package places looks up restaurants in the Google Places API so a new
// catalog entry can carry its phone number, address, website and travel time.
//
// Every outbound call waits on a token-bucket limiter and runs through a
// circuit breaker; search and detail results are cached for CacheTTL.
package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/dinnerroulette/internal/cache"
	"github.com/tomtom215/dinnerroulette/internal/config"
	"github.com/tomtom215/dinnerroulette/internal/logging"
	"github.com/tomtom215/dinnerroulette/internal/metrics"
	"github.com/tomtom215/dinnerroulette/internal/models"
)

var (
	// ErrDisabled is returned when no API key is configured.
	ErrDisabled = errors.New("places lookup is not configured")

	// ErrNotFound is returned when the provider does not know the place id.
	ErrNotFound = errors.New("place not found")

	// ErrUpstream wraps provider-side failures.
	ErrUpstream = errors.New("places provider error")
)

const (
	opSearch   = "search"
	opDetails  = "details"
	opDistance = "distance_matrix"

	// DefaultMaxResults is how many search hits are returned.
	DefaultMaxResults = 5

	// searchSlack widens the radius filter because driving distance exceeds
	// straight-line distance.
	searchSlack = 1.5

	searchTypes   = "restaurant|cafe|food"
	detailsFields = "name,formatted_phone_number,formatted_address,website,geometry,url"
)

// Details is a place lookup result.
type Details struct {
	Name string            `json:"name"`
	Info *models.PlaceInfo `json:"place"`
}

// Client talks to the Places, Place Details and Distance Matrix endpoints.
type Client struct {
	apiKey  string
	baseURL string
	radius  int

	origin    latLng
	hasOrigin bool

	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *breaker
	cache      *cache.Cache
}

// NewClient creates a client from configuration. A missing API key yields a
// client whose calls return ErrDisabled.
func NewClient(cfg config.PlacesConfig) *Client {
	c := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		radius:     cfg.Radius,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		breaker:    newBreaker("places-api"),
		cache:      cache.New("places", cfg.CacheTTL),
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(1, int(cfg.RequestsPerSecond)))
	}
	if cfg.Location != "" {
		lat, lng, err := config.ParseLatLng(cfg.Location)
		if err != nil {
			logging.Warn().Err(err).Str("location", cfg.Location).Msg("Ignoring invalid places location")
		} else {
			c.origin = latLng{Lat: lat, Lng: lng}
			c.hasOrigin = true
		}
	}
	return c
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Close stops the cache sweeper.
func (c *Client) Close() {
	c.cache.Close()
}

// Search runs a text search biased to the configured location. Results too far
// from the origin are dropped and the rest sorted closest first.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]models.PlaceSummary, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	query = strings.TrimSpace(query)
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	key := cache.GenerateKey(opSearch, struct {
		Query string
		Max   int
	}{strings.ToLower(query), maxResults})
	if v, ok := c.cache.Get(key); ok {
		if results, ok := v.([]models.PlaceSummary); ok {
			metrics.PlacesRequests.WithLabelValues(opSearch, "cache_hit").Inc()
			return results, nil
		}
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("type", searchTypes)
	if c.hasOrigin {
		params.Set("location", c.origin.String())
		params.Set("radius", fmt.Sprint(c.radius))
	}

	var resp textSearchResponse
	if err := c.get(ctx, opSearch, "/maps/api/place/textsearch/json", params, &resp); err != nil {
		return nil, err
	}
	switch resp.Status {
	case statusOK:
	case statusZeroResults:
		return []models.PlaceSummary{}, nil
	default:
		return nil, upstreamError(resp.Status, resp.ErrorMessage)
	}

	results := c.filterSearch(resp.Results)
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	c.cache.Set(key, results)
	return results, nil
}

func (c *Client) filterSearch(in []placeResult) []models.PlaceSummary {
	out := make([]models.PlaceSummary, 0, len(in))
	limit := float64(c.radius) * searchSlack
	for _, p := range in {
		s := models.PlaceSummary{
			PlaceID: p.PlaceID,
			Name:    p.Name,
			Address: p.FormattedAddress,
			Rating:  p.Rating,
			Types:   p.Types,
		}
		if c.hasOrigin {
			if p.Geometry == nil {
				continue
			}
			s.DistanceMeters = haversine(c.origin, p.Geometry.Location)
			if s.DistanceMeters > limit {
				continue
			}
		}
		out = append(out, s)
	}
	if c.hasOrigin {
		sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceMeters < out[j].DistanceMeters })
	}
	return out
}

// Details fetches a place and, when an origin is configured, its driving
// distance and time. A failing distance lookup falls back to a straight-line
// estimate.
func (c *Client) Details(ctx context.Context, placeID string) (*Details, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, ErrNotFound
	}

	key := cache.GenerateKey(opDetails, placeID)
	if v, ok := c.cache.Get(key); ok {
		if d, ok := v.(*Details); ok {
			metrics.PlacesRequests.WithLabelValues(opDetails, "cache_hit").Inc()
			return cloneDetails(d), nil
		}
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)

	var resp detailsResponse
	if err := c.get(ctx, opDetails, "/maps/api/place/details/json", params, &resp); err != nil {
		return nil, err
	}
	switch resp.Status {
	case statusOK:
	case statusNotFound, statusZeroResults, statusInvalidRequest:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, placeID)
	default:
		return nil, upstreamError(resp.Status, resp.ErrorMessage)
	}

	r := resp.Result
	d := &Details{
		Name: r.Name,
		Info: &models.PlaceInfo{
			PlaceID: placeID,
			Phone:   r.FormattedPhoneNumber,
			Address: r.FormattedAddress,
			Website: r.Website,
		},
	}
	if c.hasOrigin && r.Geometry != nil {
		c.fillTravel(ctx, d.Info, r.Geometry.Location)
	}

	c.cache.Set(key, d)
	return cloneDetails(d), nil
}

// PlaceInfo returns only the metadata stored on a restaurant.
func (c *Client) PlaceInfo(ctx context.Context, placeID string) (*models.PlaceInfo, error) {
	d, err := c.Details(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return d.Info, nil
}

func (c *Client) fillTravel(ctx context.Context, info *models.PlaceInfo, dest latLng) {
	meters, seconds, err := c.drivingDistance(ctx, dest)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Distance matrix failed, using straight-line estimate")
		meters = haversine(c.origin, dest)
		seconds = estimateDriveSeconds(meters)
	}
	info.TravelDistance = formatMiles(meters)
	info.TravelTime = formatMinutes(seconds)
}

func (c *Client) drivingDistance(ctx context.Context, dest latLng) (meters, seconds float64, err error) {
	params := url.Values{}
	params.Set("origins", c.origin.String())
	params.Set("destinations", dest.String())
	params.Set("mode", "driving")
	params.Set("units", "imperial")

	var resp distanceMatrixResponse
	if err := c.get(ctx, opDistance, "/maps/api/distancematrix/json", params, &resp); err != nil {
		return 0, 0, err
	}
	if resp.Status != statusOK {
		return 0, 0, upstreamError(resp.Status, resp.ErrorMessage)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, 0, fmt.Errorf("%w: empty distance matrix", ErrUpstream)
	}
	el := resp.Rows[0].Elements[0]
	if el.Status != statusOK || el.Distance == nil || el.Duration == nil {
		return 0, 0, upstreamError(el.Status, "")
	}
	return el.Distance.Value, el.Duration.Value, nil
}

// get performs one rate-limited, breaker-protected GET and decodes the body.
func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	params.Set("key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	start := time.Now()
	_, err := c.breaker.execute(func() (any, error) {
		return nil, c.doGet(ctx, reqURL, out)
	})
	metrics.RecordPlacesRequest(op, time.Since(start), err)
	return err
}

func (c *Client) doGet(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, redactKey(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return nil
}

// redactKey strips the request URL, which carries the API key, from
// transport errors.
func redactKey(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

func upstreamError(status, message string) error {
	if message != "" {
		return fmt.Errorf("%w: %s: %s", ErrUpstream, status, message)
	}
	return fmt.Errorf("%w: %s", ErrUpstream, status)
}

func cloneDetails(d *Details) *Details {
	info := *d.Info
	return &Details{Name: d.Name, Info: &info}
}
