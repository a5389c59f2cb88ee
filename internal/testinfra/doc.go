// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

// Package testinfra starts real backing services in Docker for integration
// tests. Everything here is behind the "integration" build tag:
//
//	go test -tags integration ./internal/store/...
//
// # Redis
//
// RedisContainer runs a throwaway Redis server so the Redis store is tested
// against the same commands and Lua scripting it uses in production:
//
//	func TestRedisStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redis, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, redis)
//
//	    s, err := store.OpenRedisStore(ctx, store.RedisOptions{Addr: redis.Addr})
//	    // ...
//	}
//
// Tests skip when no Docker daemon is reachable. The first run pulls the
// image.
package testinfra
