package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork marks a backend call that failed on the network: a
	// timeout, a refused connection or a dropped socket.
	ErrNetwork = errors.New("cache backend unreachable")

	// ErrClosed is returned by a backend used after Close.
	ErrClosed = errors.New("cache backend closed")
)

// Redis calls are retried this many times in total, doubling the pause
// between attempts.
const (
	retryAttempts  = 3
	retryBaseDelay = 200 * time.Millisecond
)

type retryable struct{ err error }

func (e *retryable) Error() string { return e.err.Error() }
func (e *retryable) Unwrap() error { return e.err }

// Retryable marks err as worth another attempt. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryable{err: err}
}

// IsRetryable reports whether err was marked by [Retryable].
func IsRetryable(err error) bool {
	var r *retryable
	return errors.As(err, &r)
}

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// by [Retryable], or runs out of attempts. It returns the last error, or the
// context error if ctx ends while waiting.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	err := fn()
	delay := retryBaseDelay
	for attempt := 1; attempt < retryAttempts && IsRetryable(err); attempt++ {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		err = fn()
	}
	return err
}
