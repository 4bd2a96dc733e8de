package retry

import (
	"context"
	"time"
)

// BackoffFunc returns the delay to sleep after a failed attempt.
// attempt is 1-based.
type BackoffFunc func(attempt int) time.Duration

// Linear grows the delay by step per attempt: step, 2*step, 3*step...
func Linear(step time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// Exponential doubles the delay per attempt: base, 2*base, 4*base...
func Exponential(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return base << (attempt - 1)
	}
}

// None retries immediately.
func None() BackoffFunc {
	return func(int) time.Duration { return 0 }
}

// Do runs fn up to attempts times, sleeping backoff(attempt) between
// failures. It returns nil on the first success, the last error once
// attempts are exhausted, or ctx.Err() if the context ends while waiting.
func Do(ctx context.Context, attempts int, backoff BackoffFunc, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		delay := backoff(attempt)
		if delay <= 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
