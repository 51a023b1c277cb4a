package resilience

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy bounds an eventually-consistent operation: at most MaxAttempts
// calls, Interval apart (doubling when Exponential is set).
type RetryPolicy struct {
	MaxAttempts int
	Interval    time.Duration
	Exponential bool
}

func NewRetryPolicy(maxAttempts int, interval time.Duration) RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 15
	}
	if interval <= 0 {
		interval = time.Second
	}
	return RetryPolicy{MaxAttempts: maxAttempts, Interval: interval}
}

func (r RetryPolicy) backoff() retry.Backoff {
	interval := r.Interval
	if interval <= 0 {
		interval = time.Second
	}
	var b retry.Backoff
	if r.Exponential {
		b = retry.NewExponential(interval)
	} else {
		b = retry.NewConstant(interval)
	}
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return retry.WithMaxRetries(uint64(attempts-1), b)
}

// Do calls fn until it succeeds, returns a permanent error, or the attempts run
// out. fn marks an error worth retrying with Retryable. The attempt number
// starts at 1.
func (r RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	attempt := 0
	return retry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		attempt++
		return fn(ctx, attempt)
	})
}

// Retryable marks err as transient for RetryPolicy.Do.
func Retryable(err error) error {
	return retry.RetryableError(err)
}
