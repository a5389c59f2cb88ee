// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

/*
Package models defines the data structures shared by the store, the roulette
engine and the HTTP API.

Key Components:

  - Restaurant: catalog record with categories, distance bucket, closed weekdays
    and optional place metadata
  - SpinHistoryEntry: one ledger row per successful spin
  - Scope: the category/distance filter a spin or stats request runs under
  - PoolStats: the read-only view of a candidate pool with weights and percentages
  - API response types: flat JSON bodies carrying a "success" flag

Weekdays follow time.Weekday numbering (0 = Sunday) so closed days can be
compared against time.Now().Weekday() directly.
*/
package models
