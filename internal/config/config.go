// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // minimal images ship without a zone database
)

// Config is the full application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Roulette   RouletteConfig   `koanf:"roulette"`
	Storage    StorageConfig    `koanf:"storage"`
	Security   SecurityConfig   `koanf:"security"`
	Places     PlacesConfig     `koanf:"places"`
	Backup     BackupConfig     `koanf:"backup"`
	Logging    LoggingConfig    `koanf:"logging"`
	Categories CategoriesConfig `koanf:"categories"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RouletteConfig holds spin settings.
type RouletteConfig struct {
	// SpinCooldown is the minimum time between two spins of the same user.
	// 0 disables the cooldown.
	SpinCooldown time.Duration `koanf:"spin_cooldown"`

	// ExcludeRecent is how many distinct recent picks in the same filter
	// scope are left out of the next draw. 0 disables it.
	ExcludeRecent int `koanf:"exclude_recent"`

	HistoryDefaultLimit int `koanf:"history_default_limit"`
	HistoryMaxLimit     int `koanf:"history_max_limit"`

	// Timezone decides which weekday counts as today for closed days.
	Timezone string `koanf:"timezone"`
}

// Location resolves Timezone, defaulting to UTC.
func (r RouletteConfig) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(r.Timezone)
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend        string `koanf:"backend"` // memory, badger or redis
	BadgerPath     string `koanf:"badger_path"`
	BadgerInMemory bool   `koanf:"badger_in_memory"`
	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`
}

// SecurityConfig holds identity cookie, CORS and rate limit settings.
type SecurityConfig struct {
	CookieName   string        `koanf:"cookie_name"`
	CookieMaxAge time.Duration `koanf:"cookie_max_age"`
	CookieSecure bool          `koanf:"cookie_secure"`

	// IdentitySecret signs the identity cookie (HS256). When empty the
	// cookie carries the plain name, which is only accepted in development.
	IdentitySecret string `koanf:"identity_secret"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// PlacesConfig configures the optional Google Places lookup.
type PlacesConfig struct {
	Enabled           bool          `koanf:"enabled"`
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url"`
	Location          string        `koanf:"location"` // "lat,lng" the group starts from
	Radius            int           `koanf:"radius"`   // meters
	Timeout           time.Duration `koanf:"timeout"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
}

// BackupConfig holds catalog backup settings.
type BackupConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Dir        string `koanf:"dir"`
	MaxBackups int    `koanf:"max_backups"`
	// AutoBackup writes a snapshot after every catalog change.
	AutoBackup bool `koanf:"auto_backup"`
	// Interval adds a periodic snapshot. 0 disables it.
	Interval time.Duration `koanf:"interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller adds file:line to each event.
	Caller bool `koanf:"caller"`
}

// CategoriesConfig lists the built-in categories. Users may add more.
type CategoriesConfig struct {
	Defaults []string `koanf:"defaults"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
