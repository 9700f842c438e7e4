package trello

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default Trello API quota: 300 requests per 10 seconds per token.
const (
	DefaultMaxCalls = 300
	DefaultWindow   = 10 * time.Second
)

// RateLimiter keeps outbound calls under a fixed quota using a sliding
// window of admission timestamps. It only delays callers, it never rejects:
// once Wait returns nil the caller may proceed without exceeding the quota.
// Safe for concurrent use.
type RateLimiter struct {
	maxCalls int
	window   time.Duration
	logger   *zap.Logger

	// now and sleep are swappable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	// mu guards admitted; prune + append is a single critical section.
	mu       sync.Mutex
	admitted []time.Time
}

// NewRateLimiter creates a sliding-window rate limiter. Non-positive
// arguments fall back to the Trello defaults.
func NewRateLimiter(maxCalls int, window time.Duration, logger *zap.Logger) *RateLimiter {
	if maxCalls <= 0 {
		maxCalls = DefaultMaxCalls
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		maxCalls: maxCalls,
		window:   window,
		logger:   logger.With(zap.String("component", "rate_limiter")),
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait blocks until the caller may make an outbound call. It prunes
// timestamps older than the window, admits immediately when under the
// quota, and otherwise sleeps until the oldest admitted call leaves the
// window before retrying. Returns the context error if cancelled while
// waiting; a cancelled caller is never admitted.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		wait, admitted := r.tryAdmit()
		if admitted {
			return nil
		}

		r.logger.Warn("rate limit reached, waiting",
			zap.Duration("wait", wait),
		)

		// Sleep outside the lock so other callers are not blocked.
		if err := r.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// tryAdmit performs the prune + check + append critical section. When the
// window is full it returns the delay until the oldest entry expires.
func (r *RateLimiter) tryAdmit() (wait time.Duration, admitted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.window)

	// Drop timestamps that have left the window. admitted is ordered, so
	// the retained suffix starts at the first in-window entry.
	keep := 0
	for keep < len(r.admitted) && !r.admitted[keep].After(cutoff) {
		keep++
	}
	if keep > 0 {
		r.admitted = append(r.admitted[:0], r.admitted[keep:]...)
	}

	if len(r.admitted) < r.maxCalls {
		r.admitted = append(r.admitted, now)
		return 0, true
	}

	return r.window - now.Sub(r.admitted[0]), false
}

// Len returns the number of admissions currently inside the window.
func (r *RateLimiter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.window)
	n := 0
	for _, t := range r.admitted {
		if t.After(cutoff) {
			n++
		}
	}
	return n
}

// sleepContext sleeps for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
