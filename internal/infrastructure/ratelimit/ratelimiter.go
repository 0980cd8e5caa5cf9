// Package ratelimit counts requests per caller in fixed time windows.
package ratelimit

import (
	"context"
	"time"
)

// Policy allows Limit requests per Window. A non-positive Limit disables limiting.
type Policy struct {
	Limit  int
	Window time.Duration
}

func (p Policy) Enabled() bool {
	return p.Limit > 0 && p.Window > 0
}

type Decision struct {
	Allowed    bool
	Remaining  int
	ResetAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, policy Policy) (Decision, error)
	Reset(ctx context.Context, key string) error
}
