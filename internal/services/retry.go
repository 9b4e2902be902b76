package services

import (
	"context"
	"log/slog"
	"time"

	"subtitle/internal/logging"
)

// RetryPolicy controls how Retry schedules attempts.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// InitialDelay is the sleep before the second attempt.
	InitialDelay time.Duration
	// Backoff multiplies the delay after each failed attempt.
	Backoff float64
	// MaxDelay caps the delay between attempts. Zero means uncapped.
	MaxDelay time.Duration
	// Retryable reports whether an error is worth another attempt.
	// Nil retries every error.
	Retryable func(error) bool
	// Sleeper overrides how waits are performed (useful for tests).
	Sleeper func(context.Context, time.Duration) error
	// Logger receives a warning per failed attempt when set.
	Logger *slog.Logger
}

// DefaultRetryPolicy matches the download defaults: three attempts starting
// at one second, doubling each time.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		Backoff:      2,
	}
}

// Retry invokes op until it succeeds, the policy is exhausted, or the
// context is cancelled. The last error is returned on exhaustion.
func Retry(ctx context.Context, policy RetryPolicy, op func() error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := policy.Backoff
	if backoff <= 0 {
		backoff = 1
	}
	sleep := policy.Sleeper
	if sleep == nil {
		sleep = sleepWithContext
	}

	delay := policy.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if policy.Retryable != nil && !policy.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		if policy.Logger != nil {
			policy.Logger.Warn("operation failed, retrying",
				logging.Int("attempt", attempt),
				logging.Int("max_attempts", attempts),
				logging.Duration("backoff", delay),
				logging.Error(lastErr),
			)
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		delay = time.Duration(float64(delay) * backoff)
		if policy.MaxDelay > 0 && delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}
	return lastErr
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
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
