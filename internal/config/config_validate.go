// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateRoulette(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validatePlaces(); err != nil {
		return err
	}
	if err := c.validateBackup(); err != nil {
		return err
	}
	if err := c.validateCategories(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateRoulette() error {
	r := c.Roulette
	if r.SpinCooldown < 0 {
		return fmt.Errorf("SPIN_COOLDOWN must not be negative, got %v", r.SpinCooldown)
	}
	if r.ExcludeRecent < 0 {
		return fmt.Errorf("EXCLUDE_RECENT must not be negative, got %d", r.ExcludeRecent)
	}
	if r.HistoryDefaultLimit < 1 {
		return fmt.Errorf("HISTORY_DEFAULT_LIMIT must be at least 1, got %d", r.HistoryDefaultLimit)
	}
	if r.HistoryMaxLimit < r.HistoryDefaultLimit {
		return fmt.Errorf("HISTORY_MAX_LIMIT (%d) must be at least HISTORY_DEFAULT_LIMIT (%d)",
			r.HistoryMaxLimit, r.HistoryDefaultLimit)
	}
	if _, err := r.Location(); err != nil {
		return fmt.Errorf("ROULETTE_TIMEZONE is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case "memory":
	case "badger":
		if c.Storage.BadgerPath == "" && !c.Storage.BadgerInMemory {
			return fmt.Errorf("BADGER_PATH is required when STORAGE_BACKEND=badger")
		}
	case "redis":
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when STORAGE_BACKEND=redis")
		}
		if c.Storage.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB must not be negative, got %d", c.Storage.RedisDB)
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be memory, badger or redis, got %q", c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if s.CookieName == "" {
		return fmt.Errorf("COOKIE_NAME is required")
	}
	if s.CookieMaxAge <= 0 {
		return fmt.Errorf("COOKIE_MAX_AGE must be positive, got %v", s.CookieMaxAge)
	}
	if c.IsProduction() && len(s.IdentitySecret) < 32 {
		return fmt.Errorf("IDENTITY_SECRET must be at least 32 characters in production")
	}
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", s.RateLimitReqs)
		}
		if s.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", s.RateLimitWindow)
		}
	}
	return nil
}

// ShouldWarnAboutCORS reports a wildcard CORS origin in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validatePlaces() error {
	p := c.Places
	if !p.Enabled {
		return nil
	}
	if p.APIKey == "" {
		return fmt.Errorf("GOOGLE_PLACES_API_KEY is required when PLACES_ENABLED=true")
	}
	if err := validateHTTPURL(p.BaseURL, "PLACES_BASE_URL"); err != nil {
		return err
	}
	if p.Location != "" {
		if _, _, err := ParseLatLng(p.Location); err != nil {
			return fmt.Errorf("PLACES_LOCATION is invalid: %w", err)
		}
	}
	if p.Radius < 1 || p.Radius > 50000 {
		return fmt.Errorf("PLACES_RADIUS must be between 1 and 50000 meters, got %d", p.Radius)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("PLACES_TIMEOUT must be positive, got %v", p.Timeout)
	}
	if p.RequestsPerSecond <= 0 {
		return fmt.Errorf("PLACES_REQUESTS_PER_SECOND must be positive, got %v", p.RequestsPerSecond)
	}
	return nil
}

func (c *Config) validateBackup() error {
	b := c.Backup
	if !b.Enabled {
		return nil
	}
	if b.Dir == "" {
		return fmt.Errorf("BACKUP_DIR is required when BACKUP_ENABLED=true")
	}
	if b.MaxBackups < 1 {
		return fmt.Errorf("MAX_BACKUPS must be at least 1, got %d", b.MaxBackups)
	}
	if b.Interval < 0 {
		return fmt.Errorf("BACKUP_INTERVAL must not be negative, got %v", b.Interval)
	}
	return nil
}

func (c *Config) validateCategories() error {
	if len(c.Categories.Defaults) == 0 {
		return fmt.Errorf("DEFAULT_CATEGORIES must list at least one category")
	}
	seen := make(map[string]bool, len(c.Categories.Defaults))
	for _, cat := range c.Categories.Defaults {
		key := strings.ToLower(strings.TrimSpace(cat))
		if key == "" {
			return fmt.Errorf("DEFAULT_CATEGORIES contains an empty category")
		}
		if seen[key] {
			return fmt.Errorf("DEFAULT_CATEGORIES contains %q twice", cat)
		}
		seen[key] = true
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks for an http(s) base URL with a host and no query.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}

// ParseLatLng parses "lat,lng".
func ParseLatLng(s string) (lat, lng float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"lat,lng\", got %q", s)
	}
	if lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return 0, 0, fmt.Errorf("latitude: %w", err)
	}
	if lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return 0, 0, fmt.Errorf("longitude: %w", err)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("coordinates out of range: %q", s)
	}
	return lat, lng, nil
}
