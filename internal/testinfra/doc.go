// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to run a real Redis for the Redis
// store integration tests. Everything here is behind the integration build
// tag:
//
//	go test -tags integration ./internal/recommend/redisstore/...
//
// # Redis Container
//
//	func TestAgainstRedis(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redisC, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, redisC)
//
//	    cfg := redisstore.DefaultConfig()
//	    cfg.Addr = redisC.Addr
//	    store, err := redisstore.New(ctx, cfg, zerolog.Nop())
//	    // ...
//	}
package testinfra
