// Package session keeps the signed-in session registry and the
// session-change bus in Redis.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/sowmya-kancharla03/CuraCare/internal/config"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

const keyPrefix = "session:"

var errSessionExpired = errors.New("session already expired")

// keyValueClient is the subset of *redis.Client the registry uses.
type keyValueClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore registers each issued session under session:<id> until the
// token expires. Signing out deletes the key.
type RedisStore struct {
	client keyValueClient
	cb     *gobreaker.CircuitBreaker
}

var _ ports.SessionStore = (*RedisStore)(nil)

func NewRedisStore(client keyValueClient) *RedisStore {
	return &RedisStore{
		client: client,
		cb:     config.NewCircuitBreaker("Redis-Sessions"),
	}
}

func (s *RedisStore) Save(ctx context.Context, session domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errSessionExpired
	}
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, keyPrefix+session.ID, session.UserID, ttl).Err()
	})
	return err
}

func (s *RedisStore) IsActive(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.Exists(ctx, keyPrefix+sessionID).Result()
	})
	if err != nil {
		return false, err
	}
	return n.(int64) > 0, nil
}

func (s *RedisStore) Revoke(ctx context.Context, sessionID string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, keyPrefix+sessionID).Err()
	})
	return err
}
