package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// pruneThreshold is the bucket count above which idle buckets are dropped.
	pruneThreshold = 1024
	// idleTTL is how long an untouched bucket is kept.
	idleTTL = 10 * time.Minute
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter allows perMinute requests per key on average with the given burst.
// A burst below 1 is raised to 1.
func NewMemoryLimiter(perMinute, burst int) *MemoryLimiter {
	if burst < 1 {
		burst = 1
	}
	return &MemoryLimiter{
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Backend implements Limiter.
func (m *MemoryLimiter) Backend() string { return "memory" }

// Allow implements Limiter. It never returns an error.
func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if len(m.buckets) > pruneThreshold {
		m.prune(now)
	}

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now

	if !b.limiter.AllowN(now, 1) {
		return Decision{Allowed: false, RetryAfter: m.retryAfter(b.limiter, now)}, nil
	}
	return Decision{Allowed: true, Remaining: int(math.Floor(b.limiter.TokensAt(now)))}, nil
}

// retryAfter is the time until one token is available again.
func (m *MemoryLimiter) retryAfter(l *rate.Limiter, now time.Time) time.Duration {
	if m.limit <= 0 {
		return time.Minute
	}
	missing := 1 - l.TokensAt(now)
	return time.Duration(missing / float64(m.limit) * float64(time.Second))
}

// prune drops buckets idle for longer than idleTTL.
func (m *MemoryLimiter) prune(now time.Time) {
	for k, b := range m.buckets {
		if now.Sub(b.lastSeen) > idleTTL {
			delete(m.buckets, k)
		}
	}
}
