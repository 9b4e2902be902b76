package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func noSleep(_ context.Context, _ time.Duration) error { return nil }

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	policy := RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond, Backoff: 2, Sleeper: noSleep}

	err := Retry(context.Background(), policy, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestRetryExhaustionReturnsLastError(t *testing.T) {
	calls := 0
	last := errors.New("still broken")
	policy := RetryPolicy{MaxAttempts: 4, InitialDelay: time.Millisecond, Backoff: 2, Sleeper: noSleep}

	err := Retry(context.Background(), policy, func() error {
		calls++
		return last
	})
	if !errors.Is(err, last) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected 4 attempts, got %d", calls)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	fatal := errors.New("bad request")
	policy := RetryPolicy{
		MaxAttempts:  5,
		InitialDelay: time.Millisecond,
		Backoff:      2,
		Sleeper:      noSleep,
		Retryable:    func(err error) bool { return !errors.Is(err, fatal) },
	}

	err := Retry(context.Background(), policy, func() error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestRetryBacksOffWithCap(t *testing.T) {
	var delays []time.Duration
	policy := RetryPolicy{
		MaxAttempts:  4,
		InitialDelay: 100 * time.Millisecond,
		Backoff:      2,
		MaxDelay:     150 * time.Millisecond,
		Sleeper: func(_ context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		},
	}

	_ = Retry(context.Background(), policy, func() error { return errors.New("nope") })

	want := []time.Duration{100 * time.Millisecond, 150 * time.Millisecond, 150 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("expected %d sleeps, got %d", len(want), len(delays))
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Fatalf("sleep %d = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestRetryHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, DefaultRetryPolicy(), func() error {
		t.Fatal("op should not run after cancellation")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
