// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/dinnerroulette/internal/logging"
)

// AccessLog logs one line per request. Requests slower than slow are logged
// at warn level; a zero threshold disables the slow-request warning.
// Server errors are logged at error level.
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			log := logging.Ctx(r.Context())

			var event *zerolog.Event
			switch {
			case sw.status >= http.StatusInternalServerError:
				event = log.Error()
			case slow > 0 && elapsed > slow:
				event = log.Warn().Bool("slow", true)
			default:
				event = log.Debug()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Dur("duration", elapsed).
				Msg("http request")
		})
	}
}
