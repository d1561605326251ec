package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"sweetdelivery/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const BackendRedis = "redis"

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// ErrInvalidRedisLockConfig is returned for a non-positive TTL or poll interval.
var ErrInvalidRedisLockConfig = errors.New("redis lock ttl and poll interval must be positive")

// cmdable is the subset of the go-redis client the lock needs.
type cmdable interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

// RedisLockOptions configures RedisLock.
type RedisLockOptions struct {
	Key          string
	TTL          time.Duration
	PollInterval time.Duration
}

// RedisLock is a store lock shared through Redis.
//
// While the key is taken, Acquire retries every PollInterval. TTL bounds how
// long a crashed holder keeps the lock; it must exceed the longest guarded
// operation.
type RedisLock struct {
	client  cmdable
	opts    RedisLockOptions
	metrics *metrics.DispatchMetrics
}

func NewRedisLock(client cmdable, opts RedisLockOptions, m *metrics.DispatchMetrics) (*RedisLock, error) {
	if opts.TTL <= 0 || opts.PollInterval <= 0 {
		return nil, ErrInvalidRedisLockConfig
	}
	if opts.Key == "" {
		opts.Key = "dispatch:store-lock"
	}
	return &RedisLock{client: client, opts: opts, metrics: m}, nil
}

// Acquire polls until the key is set by this caller or ctx is done.
func (l *RedisLock) Acquire(ctx context.Context) (func(), error) {
	start := time.Now()
	token := uuid.NewString()

	ticker := time.NewTicker(l.opts.PollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, l.opts.Key, token, l.opts.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire store lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
	l.metrics.ObserveLockWait(BackendRedis, time.Since(start))

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's context may already be cancelled; release must still run.
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.opts.TTL)
			defer cancel()
			_ = l.client.Eval(releaseCtx, releaseScript, []string{l.opts.Key}, token).Err()
		})
	}, nil
}
