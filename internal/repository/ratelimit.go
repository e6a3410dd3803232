package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/boardwatch/internal/store"
)

// ErrRateLimited marks a request rejected by the per-IP probe quota. It is a
// hard, retryable rejection of the whole submission, distinct from individual
// URLs being unreachable.
var ErrRateLimited = errors.New("rate limit exceeded")

// Probe rate limit defaults: 100 submissions per IP per sliding minute.
const (
	ProbeRateLimitPerMinute = 100
	ProbeRateWindow         = time.Minute
)

const keyProbeRate = "probe-rate:"

// RateLimiter enforces the per-IP probe quota on top of the store's atomic
// sliding-window buckets.
type RateLimiter struct {
	store  store.Store
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter with the given per-window quota. A
// non-positive limit falls back to the default.
func NewRateLimiter(s store.Store, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = ProbeRateLimitPerMinute
	}
	if window <= 0 {
		window = ProbeRateWindow
	}
	return &RateLimiter{store: s, limit: limit, window: window}
}

// CheckProbe records one probe submission for the IP and returns
// ErrRateLimited when the quota is exhausted. Buckets are per IP; traffic from
// one address never affects another.
func (l *RateLimiter) CheckProbe(ctx context.Context, ip string) error {
	allowed, err := l.store.Allow(ctx, keyProbeRate+ip, l.limit, l.window)
	if err != nil {
		return fmt.Errorf("probe rate check: %w", err)
	}
	if !allowed {
		return ErrRateLimited
	}
	return nil
}

// Limit returns the configured per-window quota.
func (l *RateLimiter) Limit() int {
	return l.limit
}
