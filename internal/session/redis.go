package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"englishcard/internal/domain"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore keeps states in Redis so they survive restarts and can be
// shared by several bot processes. A state that outlives ttl expires back
// to idle; ttl 0 disables expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store on top of an existing client
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and checks the connection
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Get returns user's current state
func (s *RedisStore) Get(ctx context.Context, userID int64) (*domain.StateData, error) {
	data, err := s.client.Get(ctx, redisKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.IdleState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var state domain.StateData
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &state, nil
}

// Set replaces user's state
func (s *RedisStore) Set(ctx context.Context, userID int64, state *domain.StateData) error {
	if state.IsIdle() {
		return s.Clear(ctx, userID)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear resets user to idle state
func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, redisKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func redisKey(userID int64) string {
	return redisKeyPrefix + strconv.FormatInt(userID, 10)
}
