// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package catalog

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/tomtom215/dinnerroulette/internal/logging"
	"github.com/tomtom215/dinnerroulette/internal/validation"
)

// Categories lists built-in and custom categories.
type Categories struct {
	All     []string `json:"categories"`
	Default []string `json:"default"`
	Custom  []string `json:"custom"`
}

// Categories returns the built-in categories followed by the custom ones.
func (s *Service) Categories(ctx context.Context) (*Categories, error) {
	custom, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := &Categories{
		Default: append([]string(nil), s.defaults...),
		Custom:  make([]string, 0, len(custom)),
	}
	for _, c := range custom {
		if !slices.Contains(s.defaults, c) {
			out.Custom = append(out.Custom, c)
		}
	}
	sort.Strings(out.Custom)
	out.All = append(append([]string(nil), out.Default...), out.Custom...)
	return out, nil
}

// AddCategory adds a custom category. Names are lowercased and must be 2-30
// characters.
func (s *Service) AddCategory(ctx context.Context, name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if err := validation.ValidateVar(name, "required,category,min=2,max=30"); err != nil {
		return "", fmt.Errorf("%w: category must be 2-30 letters, numbers, spaces, hyphens or '&'", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.defaults, name) {
		return "", ErrCategoryExists
	}
	added, err := s.store.AddCategory(ctx, name)
	if err != nil {
		return "", fmt.Errorf("add category: %w", err)
	}
	if !added {
		return "", ErrCategoryExists
	}

	logging.Ctx(ctx).Info().Str("category", name).Msg("Category added")
	s.changed(ctx, OpCategory)
	return name, nil
}

func (s *Service) checkCategories(ctx context.Context, categories []string) error {
	custom, err := s.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	for _, c := range categories {
		if !slices.Contains(s.defaults, c) && !slices.Contains(custom, c) {
			return fmt.Errorf("%w: %s", ErrUnknownCategory, c)
		}
	}
	return nil
}

// normalizeCategories lowercases, trims and dedupes, keeping first-seen order.
func normalizeCategories(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}
