// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

/*
Package config loads and validates Dinner Roulette configuration.

# Configuration Sources

Configuration is layered, later sources overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, config.yaml, config.yml,
    /etc/dinnerroulette/config.yaml
 3. Environment variables listed in the mapping table of envTransformFunc

Unknown environment variables are ignored.

# Sections

  - server: bind address, port (default 5010), timeouts, environment
  - roulette: spin cooldown, recent-pick exclusion, history limits, timezone
  - storage: memory, badger or redis backend
  - security: identity cookie, CORS, request rate limiting
  - places: optional Google Places lookup
  - backup: catalog snapshots and retention
  - logging: level, format, caller
  - categories: the built-in restaurant categories

# Example

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(cfg.Server.Port)

Environment examples:

	HTTP_PORT=8080
	SPIN_TIMEOUT_SECONDS=60s
	STORAGE_BACKEND=redis
	REDIS_ADDR=redis:6379
	CORS_ORIGINS=https://dinner.example.com,https://lunch.example.com
*/
package config
