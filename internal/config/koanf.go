// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/dinnerroulette/config.yaml",
	"/etc/dinnerroulette/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5010,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Roulette: RouletteConfig{
			SpinCooldown:        30 * time.Second,
			ExcludeRecent:       1,
			HistoryDefaultLimit: 20,
			HistoryMaxLimit:     50,
			Timezone:            "UTC",
		},
		Storage: StorageConfig{
			Backend:        "badger",
			BadgerPath:     "/data/dinnerroulette",
			RedisAddr:      "localhost:6379",
			RedisKeyPrefix: "",
		},
		Security: SecurityConfig{
			CookieName:      "dinner_roulette_user",
			CookieMaxAge:    365 * 24 * time.Hour,
			CookieSecure:    false,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Places: PlacesConfig{
			Enabled:           false,
			BaseURL:           "https://maps.googleapis.com",
			Radius:            16000, // about 10 miles
			Timeout:           10 * time.Second,
			CacheTTL:          time.Hour,
			RequestsPerSecond: 5,
		},
		Backup: BackupConfig{
			Enabled:    true,
			Dir:        "/data/backups",
			MaxBackups: 10,
			AutoBackup: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Categories: CategoriesConfig{
			Defaults: []string{"quick", "sit-down", "nice"},
		},
	}
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// environment variables, in that order, and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}
	if err := processSecondsFields(k); err != nil {
		return nil, fmt.Errorf("failed to process duration fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"categories.defaults",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// secondsConfigPaths accept a bare integer as seconds ("30") as well as a
// Go duration ("30s").
var secondsConfigPaths = []string{
	"roulette.spin_cooldown",
}

func processSecondsFields(k *koanf.Koanf) error {
	for _, path := range secondsConfigPaths {
		var seconds int
		switch v := k.Get(path).(type) {
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				continue
			}
			seconds = n
		case int:
			seconds = v
		case int64:
			seconds = int(v)
		case float64:
			seconds = int(v)
		default:
			continue
		}
		if err := k.Set(path, fmt.Sprintf("%ds", seconds)); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to config paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Roulette
	"spin_timeout_seconds":  "roulette.spin_cooldown",
	"spin_cooldown":         "roulette.spin_cooldown",
	"exclude_recent":        "roulette.exclude_recent",
	"history_default_limit": "roulette.history_default_limit",
	"history_max_limit":     "roulette.history_max_limit",
	"roulette_timezone":     "roulette.timezone",

	// Storage
	"storage_backend":  "storage.backend",
	"badger_path":      "storage.badger_path",
	"badger_in_memory": "storage.badger_in_memory",
	"redis_addr":       "storage.redis_addr",
	"redis_password":   "storage.redis_password",
	"redis_db":         "storage.redis_db",
	"redis_key_prefix": "storage.redis_key_prefix",

	// Security
	"cookie_name":         "security.cookie_name",
	"cookie_max_age":      "security.cookie_max_age",
	"cookie_secure":       "security.cookie_secure",
	"identity_secret":     "security.identity_secret",
	"secret_key":          "security.identity_secret",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Places
	"places_enabled":             "places.enabled",
	"google_places_api_key":      "places.api_key",
	"places_base_url":            "places.base_url",
	"places_location":            "places.location",
	"places_radius":              "places.radius",
	"places_timeout":             "places.timeout",
	"places_cache_ttl":           "places.cache_ttl",
	"places_requests_per_second": "places.requests_per_second",

	// Backup
	"backup_enabled":  "backup.enabled",
	"backup_dir":      "backup.dir",
	"max_backups":     "backup.max_backups",
	"backup_auto":     "backup.auto_backup",
	"backup_interval": "backup.interval",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Categories
	"default_categories": "categories.defaults",
}

// envTransformFunc maps an environment variable name to its config path.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
