package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock returns a controllable time source.
func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	now := start
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func TestNewMemoryLimiter_Defaults(t *testing.T) {
	t.Parallel()

	l := NewMemoryLimiter(60, 0)

	assert.Equal(t, 1, l.burst)
	assert.InDelta(t, 1.0, float64(l.limit), 1e-9)
	assert.Equal(t, "memory", l.Backend())
}

func TestMemoryLimiter_Allow_BurstThenDeny(t *testing.T) {
	t.Parallel()

	l := NewMemoryLimiter(60, 3)
	now, advance := fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	l.now = now
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.InDelta(t, float64(time.Second), float64(d.RetryAfter), float64(10*time.Millisecond))

	// other clients have their own bucket
	d, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// one token refills per second at 60/min
	advance(time.Second)
	d, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_Prune(t *testing.T) {
	t.Parallel()

	l := NewMemoryLimiter(60, 1)
	now, advance := fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	l.now = now
	ctx := context.Background()

	for i := 0; i <= pruneThreshold; i++ {
		_, _ = l.Allow(ctx, fmt.Sprintf("client-%d", i))
	}
	require.Len(t, l.buckets, pruneThreshold+1)

	advance(idleTTL + time.Second)
	_, _ = l.Allow(ctx, "fresh")

	assert.Len(t, l.buckets, 1)
}
