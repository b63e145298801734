package lock

import (
	"context"
	"errors"
	"time"

	domain "obras-backend/internal/domain/lock"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix    = "lock:"
	retryBackoff = 50 * time.Millisecond
)

// RedisLocker holds per-key locks in Redis. Obtain waits for at most half the
// lock TTL before reporting ErrNotObtained.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl}
}

func (l *RedisLocker) Obtain(ctx context.Context, key string) (domain.Release, error) {
	retries := int(l.ttl / 2 / retryBackoff)
	if retries < 1 {
		retries = 1
	}
	// Without a deadline redislock would cut the retries off at now+ttl and
	// surface the redis call's context error instead of ErrNotObtained.
	obtainCtx, cancel := context.WithTimeout(ctx, time.Duration(retries+1)*retryBackoff+l.ttl)
	defer cancel()

	lk, err := l.client.Obtain(obtainCtx, keyPrefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryBackoff), retries),
	})
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, domain.ErrNotObtained
	}
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, domain.ErrNotObtained
	}
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		err := lk.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			// expired under us; nothing left to free
			return nil
		}
		return err
	}, nil
}
