package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a Store backed by Redis. Expiry is enforced by
// key TTL, so expired sessions vanish without a sweeper.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (s *redisStore) Create(ctx context.Context, userID uint) (string, error) {
	sessionID := uuid.NewString()
	err := s.client.Set(ctx, sessionKey(sessionID), strconv.FormatUint(uint64(userID), 10), s.ttl).Err()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return sessionID, nil
}

func (s *redisStore) Resolve(ctx context.Context, sessionID string) (uint, error) {
	val, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve session: %w", err)
	}
	userID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("corrupt session record %q: %w", sessionID, err)
	}
	return uint(userID), nil
}

func (s *redisStore) Destroy(ctx context.Context, sessionID string) error {
	// Idempotent: destroying an absent session is not an error.
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}
