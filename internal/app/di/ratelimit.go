package di

import (
	"github.com/redis/go-redis/v9"

	"medicine_backend/internal/config"
	"medicine_backend/internal/platform/ratelimit"
)

// NewLimiter creates the request limiter.
// If Redis is available, it returns a Redis-backed implementation shared across instances.
// Otherwise, it falls back to an in-process limiter. Returns nil when rate limiting is disabled.
func NewLimiter(cfg *config.Config, rdb *redis.Client) ratelimit.Limiter {
	if cfg.RateLimitPerMinute <= 0 {
		return nil
	}
	if rdb != nil {
		return ratelimit.NewRedisLimiter(rdb, cfg.RateLimitPerMinute, "ratelimit:detect")
	}
	return ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
}
