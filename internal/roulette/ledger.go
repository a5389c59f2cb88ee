// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package roulette

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/dinnerroulette/internal/models"
	"github.com/tomtom215/dinnerroulette/internal/store"
)

// HistoryLedger records spins and answers recency queries.
type HistoryLedger struct {
	store store.Ledger
}

// NewHistoryLedger wraps a ledger store.
func NewHistoryLedger(l store.Ledger) *HistoryLedger {
	return &HistoryLedger{store: l}
}

// Append records a spin of r by user at now with went=false. The entry keeps
// a snapshot of the restaurant's name, categories and distance.
func (h *HistoryLedger) Append(ctx context.Context, r *models.Restaurant, user string, now time.Time) (*models.SpinHistoryEntry, error) {
	e := &models.SpinHistoryEntry{
		RestaurantID:   r.ID,
		RestaurantName: r.Name,
		Category:       r.PrimaryCategory(),
		Categories:     append([]string(nil), r.Categories...),
		Distance:       r.Distance,
		Username:       user,
		Timestamp:      now.UTC(),
	}
	if _, err := h.store.AppendEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}
	return e, nil
}

// MarkWent sets went=true. Calling it again on the same entry succeeds with
// changed=false. Unknown ids return store.ErrNotFound.
func (h *HistoryLedger) MarkWent(ctx context.Context, id int64) (entry *models.SpinHistoryEntry, changed bool, err error) {
	return h.store.MarkWent(ctx, id)
}

// Recent returns up to limit entries, newest first.
func (h *HistoryLedger) Recent(ctx context.Context, limit int) ([]*models.SpinHistoryEntry, error) {
	return h.store.RecentEntries(ctx, limit)
}

// MostRecentForScope returns the latest entry whose restaurant matched scope
// at spin time, or nil.
func (h *HistoryLedger) MostRecentForScope(ctx context.Context, scope models.Scope) (*models.SpinHistoryEntry, error) {
	var found *models.SpinHistoryEntry
	err := h.store.ScanEntries(ctx, func(e *models.SpinHistoryEntry) bool {
		if e.MatchesScope(scope) {
			found = e
			return false
		}
		return true
	})
	return found, err
}

// RecentDistinctForScope returns the restaurant ids of the last n distinct
// picks in scope, newest first.
func (h *HistoryLedger) RecentDistinctForScope(ctx context.Context, scope models.Scope, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	ids := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	err := h.store.ScanEntries(ctx, func(e *models.SpinHistoryEntry) bool {
		if !e.MatchesScope(scope) {
			return true
		}
		if _, dup := seen[e.RestaurantID]; !dup {
			seen[e.RestaurantID] = struct{}{}
			ids = append(ids, e.RestaurantID)
		}
		return len(ids) < n
	})
	if err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}
	return ids, nil
}
