// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Spin outcome label values.
const (
	SpinSuccess   = "success"
	SpinCooldown  = "cooldown"
	SpinEmptyPool = "empty_pool"
	SpinError     = "error"
)

var (
	// Roulette Metrics
	SpinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roulette_spins_total",
			Help: "Total number of spin attempts by outcome",
		},
		[]string{"outcome"}, // success, cooldown, empty_pool, error
	)

	SpinDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roulette_spin_duration_seconds",
			Help:    "Time from cooldown check to ledger append",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	PoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roulette_pool_size",
			Help:    "Number of open restaurants in the pool a spin drew from",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50, 100},
		},
	)

	CooldownReleases = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roulette_cooldown_releases_total",
			Help: "Cooldown reservations rolled back after a failed selection",
		},
	)

	WentMarked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roulette_went_marked_total",
			Help: "Went confirmations, split by whether the entry changed",
		},
		[]string{"changed"},
	)

	// Catalog Metrics
	CatalogMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_mutations_total",
			Help: "Restaurant catalog mutations",
		},
		[]string{"operation"}, // create, update, delete, restore, category
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Places Metrics
	PlacesRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_requests_total",
			Help: "Outbound places provider requests by operation and result",
		},
		[]string{"operation", "result"}, // result: success, error, cache_hit
	)

	PlacesRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "places_request_duration_seconds",
			Help:    "Outbound places provider latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Backup Metrics
	BackupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backups_total",
			Help: "Catalog backups and restores by result",
		},
		[]string{"operation", "result"}, // operation: backup, restore
	)

	BackupLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "backup_last_success_timestamp_seconds",
			Help: "Unix time of the last successful catalog backup",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordSpin records the outcome of one spin attempt.
func RecordSpin(outcome string, duration time.Duration) {
	SpinsTotal.WithLabelValues(outcome).Inc()
	if outcome == SpinSuccess {
		SpinDuration.Observe(duration.Seconds())
	}
}

// RecordWent records a went confirmation.
func RecordWent(changed bool) {
	if changed {
		WentMarked.WithLabelValues("true").Inc()
	} else {
		WentMarked.WithLabelValues("false").Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordPlacesRequest records one outbound places call.
func RecordPlacesRequest(operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	PlacesRequests.WithLabelValues(operation, result).Inc()
	PlacesRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordBackup records a backup or restore.
func RecordBackup(operation string, err error) {
	if err != nil {
		BackupsTotal.WithLabelValues(operation, "error").Inc()
		return
	}
	BackupsTotal.WithLabelValues(operation, "success").Inc()
	if operation == "backup" {
		BackupLastSuccess.Set(float64(time.Now().Unix()))
	}
}
