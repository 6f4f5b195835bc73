package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "resume:session:"

// RedisStore keeps sessions as JSON values in Redis, each with its own TTL.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewRedisStore creates a RedisStore. A zero TTL keeps sessions until deleted.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id uuid.UUID) string {
	return redisKeyPrefix + id.String()
}

// Create implements Store.
func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	ok, err := r.client.SetNX(ctx, redisKey(s.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if !ok {
		return ErrExists
	}
	return nil
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	data, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	s.Content.Normalize()
	return &s, nil
}

// Update implements Store. Updating refreshes the TTL.
func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	ok, err := r.client.SetXX(ctx, redisKey(s.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.client.Del(ctx, redisKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
