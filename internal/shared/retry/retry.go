// Package retry provides a bounded retry helper for outbound network calls.
// Transient failures are retried with linear backoff; errors carrying an
// explicit retry-after hint are honored by sleeping exactly that long.
// Permanent errors are never retried.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy bounds the retry behavior.
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration // linear: attempt N waits N * Backoff
}

// DefaultPolicy is suitable for most provider API calls.
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	Backoff:     2 * time.Second,
}

// AfterHinter is implemented by errors that carry an explicit
// "retry after N" signal from the remote side (e.g. HTTP 429).
type AfterHinter interface {
	RetryAfter() time.Duration
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// Permanent marks an error as non-retryable. Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether the error was marked with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// RetryAfterOf extracts the retry-after hint from an error, or 0.
func RetryAfterOf(err error) time.Duration {
	var h AfterHinter
	if errors.As(err, &h) {
		return h.RetryAfter()
	}
	return 0
}

// Do runs op with bounded attempts. Between attempts it sleeps for the
// remote retry-after hint when present, otherwise linear backoff.
// Context cancellation aborts the wait and returns the context error.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if IsPermanent(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		wait := RetryAfterOf(lastErr)
		if wait <= 0 {
			wait = time.Duration(attempt) * p.Backoff
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("retry exhausted after %d attempts: %w", p.MaxAttempts, lastErr)
}
