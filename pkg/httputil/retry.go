package httputil

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/bouqlink/bouqlink/pkg/errors"
)

// DefaultMaxDelay caps a single wait between attempts, including waits
// requested by an upstream Retry-After header.
const DefaultMaxDelay = 5 * time.Second

// RetryableError marks a transient failure that [Retry] may attempt again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a [RetryableError]. It returns nil for nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with [RetryableError].
func IsRetryable(err error) bool {
	return stderrors.As(err, new(*RetryableError))
}

// Backoff describes how often and how patiently an operation is retried.
type Backoff struct {
	Attempts int           // total calls, at least 1
	Delay    time.Duration // wait after the first failure, doubled each time
	MaxDelay time.Duration // upper bound per wait; DefaultMaxDelay when zero
}

// Do calls fn until it succeeds, returns a non-retryable error or the
// attempts run out. A rate-limit error carrying RetryAfter stretches the
// next wait to that many seconds, still bounded by MaxDelay.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	ceiling := b.MaxDelay
	if ceiling <= 0 {
		ceiling = DefaultMaxDelay
	}
	delay := b.Delay

	var lastErr error
	for i := range attempts {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) || i == attempts-1 {
			break
		}
		if err := sleep(ctx, min(waitFor(lastErr, delay), ceiling)); err != nil {
			return err
		}
		delay *= 2
	}
	return lastErr
}

// waitFor returns the upstream's requested wait when it exceeds delay.
func waitFor(err error, delay time.Duration) time.Duration {
	var rl *errors.RateLimitedError
	if stderrors.As(err, &rl) && rl.RetryAfter > 0 {
		return max(delay, time.Duration(rl.RetryAfter)*time.Second)
	}
	return delay
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry is [Backoff.Do] with the given attempts and initial delay.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Backoff{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}
