// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

/*
Package roulette implements the selection and history engine.

A spin runs these steps, serialized per user:

 1. CooldownTracker.TryConsume reserves the user's spin slot or returns a
    *CooldownError carrying the seconds remaining.
 2. BuildPool filters the catalog by scope and drops restaurants closed on the
    current weekday.
 3. AssignWeights gives every open restaurant weight 1, except the last N
    distinct picks in the same scope, which get weight 0 ("recently picked").
 4. WeightedPool.Draw picks one candidate proportionally to its weight.
 5. HistoryLedger.Append records the pick.

If steps 2 through 5 fail, the cooldown reservation is released so a failed
selection never consumes the user's cooldown. Stats runs steps 2 and 3 only
and never touches the ledger or cooldown state for writing.

# Example

	eng := roulette.NewEngine(st, st, st, roulette.Config{
	    Cooldown:      30 * time.Second,
	    ExcludeRecent: 1,
	})
	res, err := eng.Spin(ctx, "alice", models.Scope{Category: "quick"})
	var cd *roulette.CooldownError
	switch {
	case errors.As(err, &cd):
	    // retry after cd.SecondsRemaining
	case errors.Is(err, roulette.ErrEmptyPool):
	    // widen the filter
	}
*/
package roulette
