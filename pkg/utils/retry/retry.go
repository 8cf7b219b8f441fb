package retry

import (
	"context"
	"errors"
	"time"
)

var ErrRetry = errors.New("retry")

// ErrExhausted is returned by a limited Backoff when no more retries are allowed.
var ErrExhausted = errors.New("retry limit exceeded")

// Backoff is a (blocking) function returns when to retry.
//
// # Args
//
// - context: context. If context is canceled, Backoff should return ctx.Err().
//
// # Returns
//
// - error: nil if retry, non-nil if not.
type Backoff func(context.Context) error

// StaticBackoff returns a Backoff function that waits for a fixed interval.
//
// # Args
//
// - interval: interval to wait.
//
// # Returns
//
// Backoff function, which waits for `interval` or for context to be done.
var StaticBackoff = func(interval time.Duration) Backoff {
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer func() {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}
}

// Limited wraps b so that it permits at most `times` retries.
//
// After that, the returned Backoff returns ErrExhausted without waiting.
//
// When `unbounded` is true, `times` is ignored and b is returned as is.
func Limited(b Backoff, times uint, unbounded bool) Backoff {
	if unbounded {
		return b
	}
	var count uint
	return func(ctx context.Context) error {
		if times <= count {
			return ErrExhausted
		}
		count += 1
		return b(ctx)
	}
}

// Blocking calls f until it returns nil or non-retry error.
//
// f is called once immediately, and then after each backoff.
//
// # Args
//
// - ctx: context
//
// - b: backoff function
//
// - f: function to be called. If f returns ErrRetry, Blocking calls f again after backoff.
//
// # Returns
//
// - T: last return value of f
//
// - error: error returned by f, or by b
func Blocking[T any](ctx context.Context, b Backoff, f func() (T, error)) (T, error) {
	for {
		last, err := f()
		if err == nil {
			return last, nil
		}
		if !errors.Is(err, ErrRetry) {
			return last, err
		}

		if err := b(ctx); err != nil {
			return last, err
		}
	}
}
