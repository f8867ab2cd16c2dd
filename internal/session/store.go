package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"moodshare/internal/model"
	"moodshare/internal/redis"
)

// keyPrefix namespaces session keys in Redis.
const keyPrefix = "session:"

// Store is the server-side session store backing the page routes. A session
// maps an opaque cookie value to a user id; expiry is enforced by the backend
// TTL, so stale sessions simply stop resolving.
type Store interface {
	// Create opens a session for the user and returns its id.
	Create(ctx context.Context, userID int64) (string, error)
	// Lookup resolves a session id to the user id, or ErrSessionNotFound.
	Lookup(ctx context.Context, sessionID string) (int64, error)
	// Destroy ends a session. Destroying an unknown session is a no-op.
	Destroy(ctx context.Context, sessionID string) error
}

// RedisStore implements Store on the shared Redis client.
type RedisStore struct {
	client   *redis.Client
	lifetime time.Duration
}

// NewRedisStore returns a session store backed by the shared Redis client.
func NewRedisStore(client *redis.Client, lifetime time.Duration) *RedisStore {
	return &RedisStore{client: client, lifetime: lifetime}
}

func (s *RedisStore) Create(ctx context.Context, userID int64) (string, error) {
	sessionID := uuid.New().String()
	key := keyPrefix + sessionID

	err := s.client.Set(ctx, key, strconv.FormatInt(userID, 10), s.lifetime).Err()
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	return sessionID, nil
}

func (s *RedisStore) Lookup(ctx context.Context, sessionID string) (int64, error) {
	val, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if err == goredis.Nil {
		return 0, model.ErrSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup session: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, model.ErrSessionNotFound
	}
	return userID, nil
}

func (s *RedisStore) Destroy(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
