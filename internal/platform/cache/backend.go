// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	redisstore "github.com/taibuivan/blango/internal/platform/redis"
)

// Backend is the key/value store behind a [ResponseCache].
//
// Get returns (nil, false, nil) on a miss.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// RedisBackend stores cached responses in Redis.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend wraps an existing client.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// Get fetches the raw value stored under key.
func (backend *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := backend.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value under key for ttl.
func (backend *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return backend.client.Set(ctx, key, value, ttl).Err()
}

// DeletePrefix removes every key starting with prefix and returns how many were deleted.
func (backend *RedisBackend) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	return redisstore.DeleteByPrefix(ctx, backend.client, prefix)
}
