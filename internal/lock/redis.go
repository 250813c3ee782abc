package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// compare-and-delete so an expired lock taken over by another holder is left alone
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker is a Locker shared between API instances. Keys get a TTL so a crashed
// holder cannot block an item forever.
type RedisLocker struct {
	client     redis.UniversalClient
	prefix     string
	ttl        time.Duration
	attempts   int
	retryDelay time.Duration
	logger     *zap.Logger
}

type RedisOptions struct {
	Prefix     string
	TTL        time.Duration
	Attempts   int
	RetryDelay time.Duration
}

func NewRedisLocker(client redis.UniversalClient, opts RedisOptions, logger *zap.Logger) *RedisLocker {
	if opts.Prefix == "" {
		opts.Prefix = "lock:inventory:"
	}
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Second
	}
	if opts.Attempts < 1 {
		opts.Attempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 100 * time.Millisecond
	}
	return &RedisLocker{
		client:     client,
		prefix:     opts.Prefix,
		ttl:        opts.TTL,
		attempts:   opts.Attempts,
		retryDelay: opts.RetryDelay,
		logger:     logger,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := l.prefix + key
	token := uuid.New().String()

	for i := 0; i < l.attempts; i++ {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			l.logger.Error("failed to acquire lock, redis error", zap.String("key", fullKey), zap.Error(err))
		}
		if ok {
			return func() { l.release(fullKey, token) }, nil
		}
		if i == l.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotAcquired, key)
}

func (l *RedisLocker) release(key, token string) {
	// the caller's context may already be done
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
	}
}
