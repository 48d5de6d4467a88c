package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// takeScript performs the whole check-compare-increment server-side so
// concurrent takes across processes cannot interleave. A denied take leaves
// the counter untouched. Returns {count, pttl_ms, allowed}.
const takeScript = `
local count = tonumber(redis.call('GET', KEYS[1]) or '0')
local limit = tonumber(ARGV[1])
if count >= limit then
	return {count, redis.call('PTTL', KEYS[1]), 0}
end
count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return {count, redis.call('PTTL', KEYS[1]), 1}
`

// RedisStore is the shared counter backend for multi-process deployments.
// Window expiry is delegated to key TTLs, so the lazy reset comes for free.
type RedisStore struct {
	client *redis.Client
	script *redis.Script
	prefix string
}

// NewRedisStore creates a Redis-backed store. The prefix namespaces rate
// limit keys; empty means "ratelimit".
func NewRedisStore(client *redis.Client, prefix string) (*RedisStore, error) {
	if client == nil {
		return nil, ErrStoreRequired
	}
	if prefix == "" {
		prefix = "ratelimit"
	}

	return &RedisStore{
		client: client,
		script: redis.NewScript(takeScript),
		prefix: prefix,
	}, nil
}

// Take implements Store.
func (s *RedisStore) Take(ctx context.Context, key string, limit int, window time.Duration) (int64, time.Duration, bool, error) {
	raw, err := s.script.Run(ctx, s.client, []string{s.prefix + ":" + key}, limit, window.Milliseconds()).Result()
	if err != nil {
		return 0, 0, false, fmt.Errorf("ratelimit: redis take: %w", err)
	}

	reply, ok := raw.([]any)
	if !ok || len(reply) != 3 {
		return 0, 0, false, fmt.Errorf("ratelimit: unexpected redis reply %T", raw)
	}

	count, _ := reply[0].(int64)
	ttlMillis, _ := reply[1].(int64)
	allowed, _ := reply[2].(int64)

	resetIn := window
	if ttlMillis > 0 {
		resetIn = time.Duration(ttlMillis) * time.Millisecond
	}

	return count, resetIn, allowed == 1, nil
}
