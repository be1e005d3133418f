package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration bounds how long a login lasts without re-authenticating.
	SessionDuration = 7 * 24 * time.Hour

	sessionKeyPrefix = "session:"
)

// SessionStore keeps only the user's identifier per opaque token; the full
// record is rehydrated from the user store on each request.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Get(ctx context.Context, token string) (string, bool, error)
	Destroy(ctx context.Context, token string) error
}

// RedisSessionStore stores sessions in Redis with a TTL.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Create(ctx context.Context, userID string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	if err := s.client.Set(ctx, sessionKeyPrefix+token, userID, SessionDuration).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}

	userID, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return userID, true, nil
}

// Destroy removes a session. Destroying an absent session is not an error,
// so logout stays idempotent.
func (s *RedisSessionStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}
