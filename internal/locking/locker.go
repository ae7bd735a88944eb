package locking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stwalsh4118/bma/api/internal/domain"
	"github.com/stwalsh4118/bma/api/internal/logger"
)

// ReleaseFunc releases a held lock.
type ReleaseFunc func(ctx context.Context) error

// Locker serializes requests that target the same resource across API
// instances. A held lock fails fast: competing callers receive a
// domain.ConflictError instead of waiting.
type Locker interface {
	Acquire(ctx context.Context, key string) (ReleaseFunc, error)
}

// ApartmentKey is the lock key of an apartment booking.
func ApartmentKey(apartment int) string {
	return fmt.Sprintf("bma:booking:apartment:%d", apartment)
}

// Deletes the key only while it still holds our token, so an expired lock
// re-acquired by another caller is never released by us.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// lockClient is the subset of *redis.Client the locker uses.
type lockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisLocker struct {
	client lockClient
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisLocker creates a Locker backed by Redis SET NX with the given
// expiry.
func NewRedisLocker(client *redis.Client, ttl time.Duration, log *logger.Logger) Locker {
	return newRedisLocker(client, ttl, log)
}

func newRedisLocker(client lockClient, ttl time.Duration, log *logger.Logger) *redisLocker {
	return &redisLocker{client: client, ttl: ttl, log: log}
}

func (l *redisLocker) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, &domain.ConflictError{
			Resource: "booking",
			Message:  fmt.Sprintf("another request holds %s", key),
		}
	}

	l.log.Debug("Lock acquired", map[string]interface{}{
		"key": key,
		"ttl": l.ttl.String(),
	})

	return func(ctx context.Context) error {
		if err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil && err != redis.Nil {
			return fmt.Errorf("failed to release lock %s: %w", key, err)
		}
		return nil
	}, nil
}

type noopLocker struct{}

// NewNoopLocker returns a Locker that always succeeds. It is used when no
// Redis address is configured.
func NewNoopLocker() Locker {
	return noopLocker{}
}

func (noopLocker) Acquire(context.Context, string) (ReleaseFunc, error) {
	return func(context.Context) error { return nil }, nil
}

// NewClient creates a Redis client and verifies connectivity.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// Health reports whether the lock store is reachable.
type Health struct {
	client *redis.Client
}

// NewHealth wraps a client for the readiness check.
func NewHealth(client *redis.Client) *Health {
	return &Health{client: client}
}

// Ping checks connectivity to Redis.
func (h *Health) Ping(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}
