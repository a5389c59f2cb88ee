// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package roulette

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/dinnerroulette/internal/store"
)

// ErrCooldownActive matches any *CooldownError via errors.Is.
var ErrCooldownActive = errors.New("cooldown active")

// ErrCooldownContention is returned when the timestamp kept changing under
// the compare-and-swap loop.
var ErrCooldownContention = errors.New("cooldown update contention")

// maxSwapAttempts bounds the read/compare-and-swap loop in TryConsume.
const maxSwapAttempts = 8

// CooldownError reports a throttled spin.
type CooldownError struct {
	SecondsRemaining int
	RetryAt          time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %d seconds before spinning again", e.SecondsRemaining)
}

// Is lets errors.Is(err, ErrCooldownActive) match.
func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldownActive
}

// Reservation is a consumed cooldown slot that can be handed back.
type Reservation struct {
	User     string
	Previous time.Time // zero when the user had never spun
	Consumed time.Time
}

// CooldownTracker gates spins per user with one global window.
type CooldownTracker struct {
	store  store.CooldownStore
	window time.Duration
}

// NewCooldownTracker creates a tracker. A window <= 0 disables throttling but
// still records spin times.
func NewCooldownTracker(s store.CooldownStore, window time.Duration) *CooldownTracker {
	return &CooldownTracker{store: s, window: window}
}

// TryConsume records now as the user's last spin if the window has elapsed,
// or returns a *CooldownError. The write is a compare-and-swap against the
// value just read, so two callers racing on the same store cannot both win.
func (c *CooldownTracker) TryConsume(ctx context.Context, user string, now time.Time) (*Reservation, error) {
	for attempt := 0; attempt < maxSwapAttempts; attempt++ {
		last, ok, err := c.store.LastSpin(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("read last spin: %w", err)
		}

		var previous time.Time
		next := now
		if ok {
			previous = last
			if c.window > 0 {
				if elapsed := now.Sub(last); elapsed < c.window {
					return nil, &CooldownError{
						SecondsRemaining: ceilSeconds(c.window - elapsed),
						RetryAt:          last.Add(c.window),
					}
				}
			}
			if now.Before(last) {
				next = last // timestamps never move backwards
			}
		}

		swapped, err := c.store.CompareAndSwapLastSpin(ctx, user, previous, next)
		if err != nil {
			return nil, fmt.Errorf("record last spin: %w", err)
		}
		if swapped {
			return &Reservation{User: user, Previous: previous, Consumed: next}, nil
		}
	}
	return nil, ErrCooldownContention
}

// Release restores the timestamp that preceded res. It reports false when a
// later spin already replaced res, in which case nothing changes.
func (c *CooldownTracker) Release(ctx context.Context, res *Reservation) (bool, error) {
	if res == nil {
		return false, nil
	}
	return c.store.CompareAndSwapLastSpin(ctx, res.User, res.Consumed, res.Previous)
}

// Remaining reports the seconds left before user may spin again, 0 if none.
func (c *CooldownTracker) Remaining(ctx context.Context, user string, now time.Time) (int, error) {
	if c.window <= 0 {
		return 0, nil
	}
	last, ok, err := c.store.LastSpin(ctx, user)
	if err != nil || !ok {
		return 0, err
	}
	if elapsed := now.Sub(last); elapsed < c.window {
		return ceilSeconds(c.window - elapsed), nil
	}
	return 0, nil
}

// ceilSeconds rounds d up to whole seconds.
func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
