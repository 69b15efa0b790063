package ratelimit

import (
	"context"
	"time"
)

// Window is a sliding window quota: at most Limit events per Period.
type Window struct {
	Limit  int
	Period time.Duration
}

type RateLimiter interface {
	// Allow records one event for key and reports whether it fits the window.
	Allow(ctx context.Context, key string) (bool, error)
	Remaining(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}
