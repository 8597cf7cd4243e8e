package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared by every server instance.
// Each key gets perMinute requests per one-minute window.
type RedisLimiter struct {
	rdb       redis.Cmdable
	perMinute int
	window    time.Duration
	namespace string
	now       func() time.Time
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter creates a RedisLimiter. If namespace is empty, it uses "ratelimit".
func NewRedisLimiter(rdb redis.Cmdable, perMinute int, namespace string) *RedisLimiter {
	if namespace == "" {
		namespace = "ratelimit"
	}
	return &RedisLimiter{
		rdb:       rdb,
		perMinute: perMinute,
		window:    time.Minute,
		namespace: namespace,
		now:       time.Now,
	}
}

// Backend implements Limiter.
func (r *RedisLimiter) Backend() string { return "redis" }

// Allow implements Limiter. Redis failures are returned to the caller.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := r.now()
	windowStart := now.Truncate(r.window)
	k := r.windowKey(key, windowStart)

	count, err := r.rdb.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit incr %s: %w", k, err)
	}
	if count == 1 {
		// keep the key slightly past the window so late requests still see it
		if err := r.rdb.Expire(ctx, k, r.window+time.Second).Err(); err != nil {
			return Decision{}, fmt.Errorf("ratelimit expire %s: %w", k, err)
		}
	}

	if count > int64(r.perMinute) {
		return Decision{Allowed: false, RetryAfter: windowStart.Add(r.window).Sub(now)}, nil
	}
	return Decision{Allowed: true, Remaining: r.perMinute - int(count)}, nil
}

// windowKey returns namespace:client:windowUnix.
func (r *RedisLimiter) windowKey(key string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", r.namespace, safe(key), windowStart.Unix())
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
