package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps login sessions in Redis as session:<id> -> user id.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisStore creates a new Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (s *RedisStore) key(id string) string {
	return "session:" + id
}

// Create opens a session for userID and returns its opaque id.
func (s *RedisStore) Create(ctx context.Context, userID int64) (string, error) {
	id := uuid.NewString()

	if err := s.client.Set(ctx, s.key(id), userID, s.ttl).Err(); err != nil {
		s.log.Error("failed to create session", zap.Int64("user_id", userID), zap.Error(err))
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Debug("session created", zap.Int64("user_id", userID), zap.Duration("ttl", s.ttl))
	return id, nil
}

// Get returns the user id bound to the session. ok is false for unknown or
// expired sessions.
func (s *RedisStore) Get(ctx context.Context, id string) (userID int64, ok bool, err error) {
	if id == "" {
		return 0, false, nil
	}

	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		s.log.Error("failed to read session", zap.Error(err))
		return 0, false, fmt.Errorf("failed to read session: %w", err)
	}

	userID, err = strconv.ParseInt(val, 10, 64)
	if err != nil {
		s.log.Warn("corrupt session entry", zap.String("value", val))
		return 0, false, nil
	}
	return userID, true, nil
}

// Destroy ends the session. Unknown ids are ignored.
func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		s.log.Error("failed to destroy session", zap.Error(err))
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
