// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

/*
Package metrics provides Prometheus instrumentation for Dinner Roulette.

Collectors are registered on the default registry through promauto and exposed
at /metrics:

	curl http://localhost:5010/metrics

# Available Metrics

Roulette:
  - roulette_spins_total{outcome}: success, cooldown, empty_pool, error
  - roulette_spin_duration_seconds: cooldown check through ledger append
  - roulette_pool_size: open restaurants per successful spin
  - roulette_cooldown_releases_total: reservations rolled back
  - roulette_went_marked_total{changed}

API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests

Places, cache, websocket, circuit breaker and backup collectors follow the
same naming scheme.
*/
package metrics
