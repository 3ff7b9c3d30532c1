// SPDX-License-Identifier: MIT

// Package resilience provides a bounded retry policy for calls that collide
// with throttling.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRateLimited marks a rejection that is safe to retry after backing
	// off. It is the only error kind the retrier recovers from.
	ErrRateLimited = errors.New("resilience: rate limited")

	// ErrRetriesExhausted is returned after the attempt budget is spent while
	// still being rate limited.
	ErrRetriesExhausted = errors.New("resilience: retries exhausted")
)

// sleeper abstracts the backoff wait for testability.
type sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retrier retries an operation on rate-limit rejections with linearly
// increasing delay: attempt n waits n*BaseDelay before the next try. Any
// other error fails immediately, and each retry sequence is local to the one
// logical call it belongs to.
type Retrier struct {
	maxAttempts int
	baseDelay   time.Duration
	sleep       sleeper
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithSleeper replaces the backoff wait (used in tests).
func WithSleeper(s sleeper) Option {
	return func(r *Retrier) { r.sleep = s }
}

// NewRetrier creates a retrier with the given attempt budget and base delay.
func NewRetrier(maxAttempts int, baseDelay time.Duration, opts ...Option) *Retrier {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	r := &Retrier{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       realSleeper{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// attempt budget is exhausted. Exhaustion surfaces as ErrRetriesExhausted
// wrapping the last rejection.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var last error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return err
		}
		last = err
		if attempt == r.maxAttempts {
			break
		}
		if serr := r.sleep.Sleep(ctx, time.Duration(attempt)*r.baseDelay); serr != nil {
			return serr
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, r.maxAttempts, last)
}
