// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

/*
Package middleware provides the infrastructure middleware shared by every
route: request IDs, Prometheus instrumentation and access logging.

All middleware has the chi signature func(http.Handler) http.Handler, so it
plugs directly into r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(500 * time.Millisecond))

PrometheusMetrics labels requests with the matched chi route pattern
(for example /api/history/{entryID}/went) rather than the raw path, which
keeps label cardinality bounded. Requests that match no route are recorded
as "unmatched".

The response writer wrapper used for status capture implements
http.Hijacker and http.Flusher so the websocket upgrade on /api/ws keeps
working behind the middleware stack.
*/
package middleware
