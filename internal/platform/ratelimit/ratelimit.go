// Package ratelimit limits how often a client may submit images for detection.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int           // requests left in the current window/bucket
	RetryAfter time.Duration // set when Allowed is false
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	// Backend names the implementation ("memory" or "redis").
	Backend() string
}
