// Package timeout bounds blocking calls whose underlying transport does not
// reliably honor deadlines itself, e.g. an SMTP peer that accepts the TCP
// connection but never finishes the protocol handshake.
package timeout

import (
	"errors"
	"time"
)

// ErrDeadlineExceeded is returned when the guarded call did not finish
// within its deadline.
var ErrDeadlineExceeded = errors.New("guarded call exceeded deadline")

type result[T any] struct {
	val T
	err error
}

// Run executes fn on a private goroutine and waits up to deadline for it to
// finish. The worker's own error is propagated untouched when it fails in
// time. On deadline the worker is abandoned, not killed; the buffered
// channel lets it complete and exit without blocking, so fn must only touch
// state private to this call.
func Run[T any](fn func() (T, error), deadline time.Duration) (T, error) {
	ch := make(chan result[T], 1)

	go func() {
		val, err := fn()
		ch <- result[T]{val: val, err: err}
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case r := <-ch:
		return r.val, r.err
	case <-timer.C:
		var zero T
		return zero, ErrDeadlineExceeded
	}
}

// IsTimeout reports whether err came from an exceeded guard deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrDeadlineExceeded)
}
