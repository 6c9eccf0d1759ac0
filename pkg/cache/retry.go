package cache

import (
	"context"
	"errors"
	"time"
)

// transientError marks a failure that may succeed when tried again, such as
// a dropped connection to Redis.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as worth retrying. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err, or anything it wraps, was marked by
// Transient.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// backoff bounds how often a remote cache operation is attempted.
type backoff struct {
	attempts int
	delay    time.Duration
}

// remoteBackoff tries three times, waiting 200ms and then 400ms.
var remoteBackoff = backoff{attempts: 3, delay: 200 * time.Millisecond}

// do calls fn until it succeeds, fails with an error that is not transient,
// or runs out of attempts. The delay doubles after every transient failure.
func (b backoff) do(ctx context.Context, fn func() error) error {
	delay := b.delay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsTransient(err) || attempt >= b.attempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
