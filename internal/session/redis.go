package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/tokengate/internal/errors"
)

// keyPrefix namespaces session keys in Redis.
const keyPrefix = "session:"

// RedisStore implements Store backed by Redis. Expiry is enforced by Redis
// key TTLs, so expired sessions vanish without an application-level sweep.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to ping redis")
	}

	return &RedisStore{client: client}, nil
}

// Get returns the token stored under the session identifier.
func (r *RedisStore) Get(ctx context.Context, sessionID string) (string, error) {
	token, err := r.client.Get(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", apperrors.Wrap(err, "failed to get session")
	}
	return token, nil
}

// Set stores the token under the session identifier with the given TTL.
func (r *RedisStore) Set(ctx context.Context, sessionID string, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, keyPrefix+sessionID, token, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "failed to set session")
	}
	return nil
}

// Delete removes the session.
func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return apperrors.Wrap(err, "failed to delete session")
	}
	return nil
}

// Close releases the underlying Redis connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
