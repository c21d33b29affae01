package httputil

import (
	"context"
	"errors"
	"time"
)

// MaxDelay caps the wait between two attempts, including waits a server
// asked for with Retry-After.
const MaxDelay = 30 * time.Second

// RetryableError marks a transient failure (network error, 5xx response)
// that [Retry] may attempt again. After, when positive, is the minimum
// wait before the next attempt.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn until it succeeds, returns an error not marked with
// [RetryableError], or has been called attempts times. The wait starts at
// delay and doubles after each failure, bounded by [MaxDelay].
//
// The last error is returned when attempts run out, ctx.Err() when ctx is
// done while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	for attempt := 1; ; attempt++ {
		err := fn()
		var re *RetryableError
		if err == nil || !errors.As(err, &re) || attempt >= attempts {
			return err
		}

		wait := time.NewTimer(min(max(delay, re.After), MaxDelay))
		select {
		case <-ctx.Done():
			wait.Stop()
			return ctx.Err()
		case <-wait.C:
		}
		delay *= 2
	}
}
