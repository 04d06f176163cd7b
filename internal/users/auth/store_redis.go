// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/blango/internal/platform/constants"
)

// RedisSessionRepository implements [SessionRepository] using Redis.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a new Redis-backed SessionRepository.
func NewSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(id string) string {
	return constants.RedisPrefixSession + id
}

/*
Create stores the session payload under "session:<id>" with the given TTL.

Parameters:
  - context: context.Context
  - id: string
  - data: SessionData
  - ttl: time.Duration

Returns:
  - error: Storage failures
*/
func (repository *RedisSessionRepository) Create(context context.Context, id string, data SessionData, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := repository.client.Set(context, sessionKey(id), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

/*
Get retrieves the session payload.

Description: An absent key means the session expired or never existed; that
is reported as (nil, nil) so callers can treat the request as anonymous.
*/
func (repository *RedisSessionRepository) Get(context context.Context, id string) (*SessionData, error) {
	payload, err := repository.client.Get(context, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	data := &SessionData{}
	if err := json.Unmarshal(payload, data); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}
	return data, nil
}

// Delete removes the session. Deleting an absent session is not an error.
func (repository *RedisSessionRepository) Delete(context context.Context, id string) error {
	if err := repository.client.Del(context, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
