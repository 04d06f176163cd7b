// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides a managed client for volatile data storage.

Blango keeps two kinds of data in Redis, both with a TTL:

  - Rendered API and page responses (see the cache package).
  - Browser sessions created by the login form and the session auth endpoint.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Opinionated default timeouts for Redis operations.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// scanBatch is the COUNT hint passed to SCAN.
const scanBatch = 100

// NewClient parses a Redis URL and returns a ready-to-use client.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: Redis connection URL.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	// Page renders and session lookups share the pool
	options.PoolSize = 20
	options.MinIdleConns = 2
	options.MaxIdleConns = 5
	options.ClientName = "blango"

	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	// Validate connectivity immediately at startup.
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis client connected",
		slog.String("addr", options.Addr),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}

// DeleteByPrefix removes every key starting with prefix and returns how many
// were deleted. SCAN keeps a large keyspace from blocking the server.
func DeleteByPrefix(context stdctx.Context, client *redis.Client, prefix string) (int, error) {
	var cursor uint64
	deleted := 0

	for {
		keys, next, err := client.Scan(context, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return deleted, fmt.Errorf("redis: scan %q: %w", prefix, err)
		}

		if len(keys) > 0 {
			removed, err := client.Del(context, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("redis: delete %q: %w", prefix, err)
			}
			deleted += int(removed)
		}

		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}
