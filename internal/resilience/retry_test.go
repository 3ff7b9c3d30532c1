// SPDX-License-Identifier: MIT

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSleeper struct {
	delays []time.Duration
}

func (s *fakeSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func TestRetrierSucceedsImmediately(t *testing.T) {
	sleep := &fakeSleeper{}
	r := NewRetrier(3, time.Second, WithSleeper(sleep))

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 || len(sleep.delays) != 0 {
		t.Errorf("expected 1 call and no delays, got %d calls, %v", calls, sleep.delays)
	}
}

func TestRetrierRecoversAfterRateLimits(t *testing.T) {
	sleep := &fakeSleeper{}
	r := NewRetrier(3, time.Second, WithSleeper(sleep))

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return ErrRateLimited
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	// Linear backoff: attempt n waits n*base.
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(sleep.delays) != len(want) {
		t.Fatalf("expected %d delays, got %v", len(want), sleep.delays)
	}
	for i, d := range want {
		if sleep.delays[i] != d {
			t.Errorf("delay %d: expected %s, got %s", i+1, d, sleep.delays[i])
		}
	}
}

func TestRetrierExhaustsBudget(t *testing.T) {
	sleep := &fakeSleeper{}
	r := NewRetrier(3, time.Second, WithSleeper(sleep))

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return ErrRateLimited
	})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
	if !errors.Is(err, ErrRateLimited) {
		t.Error("exhaustion error must wrap the last rejection")
	}
	if calls != 3 {
		t.Errorf("expected exactly 3 attempts and no further calls, got %d", calls)
	}
	if len(sleep.delays) != 2 {
		t.Errorf("no delay after the final attempt, got %v", sleep.delays)
	}
}

func TestRetrierDoesNotRetryOtherErrors(t *testing.T) {
	sleep := &fakeSleeper{}
	r := NewRetrier(3, time.Second, WithSleeper(sleep))

	boom := errors.New("upstream exploded")
	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the original error, got %v", err)
	}
	if calls != 1 || len(sleep.delays) != 0 {
		t.Errorf("non-retryable errors must fail immediately, got %d calls", calls)
	}
}

func TestRetrierHonorsContextDuringBackoff(t *testing.T) {
	r := NewRetrier(3, 10*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := r.Do(ctx, func(context.Context) error {
		return ErrRateLimited
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation to end the backoff, got %v", err)
	}
}
