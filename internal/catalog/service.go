// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

// Package catalog manages the restaurant catalog: creating, editing and
// soft-deleting restaurants, and the category list they are filed under.
//
// Names are unique among active restaurants, compared case-insensitively.
// Deleting a restaurant only marks it inactive so history entries and
// backups keep resolving it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/dinnerroulette/internal/logging"
	"github.com/tomtom215/dinnerroulette/internal/metrics"
	"github.com/tomtom215/dinnerroulette/internal/models"
	"github.com/tomtom215/dinnerroulette/internal/store"
	"github.com/tomtom215/dinnerroulette/internal/validation"
)

var (
	// ErrInvalid wraps input validation failures.
	ErrInvalid = errors.New("invalid input")

	// ErrDuplicate is returned when an active restaurant already has the name.
	ErrDuplicate = errors.New("a restaurant with this name already exists")

	// ErrUnknownCategory is returned when a restaurant names a category that
	// is neither built in nor custom.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrCategoryExists is returned when adding a category that already exists.
	ErrCategoryExists = errors.New("category already exists")
)

// Mutation names passed to the change hook and used as metric labels.
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpCategory = "category"
)

// PlaceLookup fetches place metadata for a restaurant being added.
type PlaceLookup interface {
	PlaceInfo(ctx context.Context, placeID string) (*models.PlaceInfo, error)
}

// CreateInput is the body of a create request.
type CreateInput struct {
	Name       string   `json:"name" validate:"required,min=2,max=100"`
	Categories []string `json:"categories" validate:"required,min=1,max=10,dive,category,min=2,max=30"`
	Distance   string   `json:"distance" validate:"omitempty,distance"`
	ClosedDays []int    `json:"closed_days" validate:"unique,dive,min=0,max=6"`
	PlaceID    string   `json:"place_id" validate:"omitempty,max=300"`
}

// UpdateInput is a partial update. Nil fields are left unchanged and an empty
// ClosedDays clears them. A restaurant always keeps a distance bucket.
type UpdateInput struct {
	Name       *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Categories []string `json:"categories" validate:"omitempty,max=10,dive,category,min=2,max=30"`
	Distance   *string  `json:"distance"`
	ClosedDays []int    `json:"closed_days" validate:"omitempty,unique,dive,min=0,max=6"`
}

// Option customizes a Service.
type Option func(*Service)

// WithPlaceLookup enables place enrichment on create.
func WithPlaceLookup(p PlaceLookup) Option {
	return func(s *Service) { s.places = p }
}

// WithOnChange registers a hook run after every successful mutation.
func WithOnChange(fn func(ctx context.Context, op string)) Option {
	return func(s *Service) { s.onChange = fn }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service implements catalog operations over a store.Catalog.
type Service struct {
	store    store.Catalog
	defaults []string
	places   PlaceLookup
	onChange func(ctx context.Context, op string)
	now      func() time.Time

	// mu serializes mutations so the name check and the write are atomic
	// within this process.
	mu sync.Mutex
}

// NewService creates a catalog service. defaultCategories are the built-in
// categories, normalized to lowercase.
func NewService(st store.Catalog, defaultCategories []string, opts ...Option) *Service {
	s := &Service{
		store:    st,
		defaults: normalizeCategories(defaultCategories),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a restaurant on behalf of user.
func (s *Service) Create(ctx context.Context, user string, in CreateInput) (*models.Restaurant, error) {
	if verr := validation.ValidateStruct(&in); verr != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, verr.Error())
	}

	name := strings.TrimSpace(in.Name)
	categories := normalizeCategories(in.Categories)
	distance, _ := models.ParseDistance(in.Distance)
	if distance == "" {
		distance = models.DistanceNearby
	}
	closed := normalizeDays(in.ClosedDays)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCategories(ctx, categories); err != nil {
		return nil, err
	}
	if err := s.checkUniqueName(ctx, name, ""); err != nil {
		return nil, err
	}

	r := &models.Restaurant{
		Name:       name,
		Categories: categories,
		Distance:   distance,
		ClosedDays: closed,
		Place:      s.lookupPlace(ctx, strings.TrimSpace(in.PlaceID)),
		AddedBy:    user,
		AddedAt:    s.now().UTC(),
		Active:     true,
	}

	created, err := s.store.CreateRestaurant(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("restaurant_id", created.ID).
		Str("name", created.Name).
		Msg("Restaurant added")
	s.changed(ctx, OpCreate)
	return created, nil
}

// Update applies a partial edit to an active restaurant.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.Restaurant, error) {
	if verr := validation.ValidateStruct(&in); verr != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, verr.Error())
	}
	if in.Categories != nil && len(in.Categories) == 0 {
		return nil, fmt.Errorf("%w: categories must not be empty", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := s.checkUniqueName(ctx, name, r.ID); err != nil {
			return nil, err
		}
		r.Name = name
	}
	if in.Categories != nil {
		categories := normalizeCategories(in.Categories)
		if err := s.checkCategories(ctx, categories); err != nil {
			return nil, err
		}
		r.Categories = categories
	}
	if in.Distance != nil {
		d, ok := models.ParseDistance(*in.Distance)
		if !ok || d == "" {
			return nil, fmt.Errorf("%w: distance must be one of: nearby, short-drive, medium-drive, far", ErrInvalid)
		}
		r.Distance = d
	}
	if in.ClosedDays != nil {
		r.ClosedDays = normalizeDays(in.ClosedDays)
	}

	if err := s.store.PutRestaurant(ctx, r); err != nil {
		return nil, fmt.Errorf("update restaurant: %w", err)
	}

	logging.Ctx(ctx).Info().Str("restaurant_id", r.ID).Msg("Restaurant updated")
	s.changed(ctx, OpUpdate)
	return r, nil
}

// Delete soft-deletes an active restaurant on behalf of user.
func (s *Service) Delete(ctx context.Context, user, id string) (*models.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}

	removedAt := s.now().UTC()
	r.Active = false
	r.RemovedBy = user
	r.RemovedAt = &removedAt

	if err := s.store.PutRestaurant(ctx, r); err != nil {
		return nil, fmt.Errorf("delete restaurant: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("restaurant_id", r.ID).
		Str("name", r.Name).
		Msg("Restaurant removed")
	s.changed(ctx, OpDelete)
	return r, nil
}

// Get returns a restaurant, active or not.
func (s *Service) Get(ctx context.Context, id string) (*models.Restaurant, error) {
	return s.store.GetRestaurant(ctx, id)
}

// List returns the active restaurants matching scope, sorted by name.
func (s *Service) List(ctx context.Context, scope models.Scope) ([]*models.Restaurant, error) {
	all, err := s.store.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	out := make([]*models.Restaurant, 0, len(all))
	for _, r := range all {
		if r.Active && scope.MatchesRestaurant(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// UserStats counts how many restaurants user added and removed.
func (s *Service) UserStats(ctx context.Context, user string) (*models.UserStats, error) {
	all, err := s.store.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	stats := &models.UserStats{Username: user}
	for _, r := range all {
		if strings.EqualFold(r.AddedBy, user) {
			stats.Added++
		}
		if !r.Active && strings.EqualFold(r.RemovedBy, user) {
			stats.Removed++
		}
	}
	return stats, nil
}

func (s *Service) getActive(ctx context.Context, id string) (*models.Restaurant, error) {
	r, err := s.store.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.Active {
		return nil, store.ErrNotFound
	}
	return r, nil
}

// checkUniqueName fails when another active restaurant than selfID uses name.
func (s *Service) checkUniqueName(ctx context.Context, name, selfID string) error {
	all, err := s.store.ListRestaurants(ctx)
	if err != nil {
		return fmt.Errorf("list restaurants: %w", err)
	}
	for _, r := range all {
		if r.Active && r.ID != selfID && strings.EqualFold(r.Name, name) {
			return ErrDuplicate
		}
	}
	return nil
}

func (s *Service) lookupPlace(ctx context.Context, placeID string) *models.PlaceInfo {
	if placeID == "" {
		return nil
	}
	if s.places == nil {
		return &models.PlaceInfo{PlaceID: placeID}
	}
	info, err := s.places.PlaceInfo(ctx, placeID)
	if err != nil {
		// a failed lookup never blocks adding the restaurant
		logging.Ctx(ctx).Warn().Err(err).Str("place_id", placeID).Msg("Place lookup failed")
		return &models.PlaceInfo{PlaceID: placeID}
	}
	return info
}

func (s *Service) changed(ctx context.Context, op string) {
	metrics.CatalogMutations.WithLabelValues(op).Inc()
	if s.onChange != nil {
		s.onChange(ctx, op)
	}
}

// normalizeDays sorts and dedupes weekdays.
func normalizeDays(days []int) []int {
	if len(days) == 0 {
		return []int{}
	}
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}
