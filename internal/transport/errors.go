package transport

import (
	"errors"
	"fmt"
)

// Error is a transport-level failure: the request never completed or the
// gateway answered outside the normal success range. The canonical engine
// surfaces these as-is; it never swallows or retries them by default.
type Error struct {
	Status  int
	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	if e.Timeout {
		return fmt.Sprintf("transport timeout: %v", e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("gateway returned status %d", e.Status)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable marks server-side failures that a gateway-scoped retry
// decorator may attempt again. Timeouts and client errors are not retried.
func (e *Error) IsRetryable() bool {
	return !e.Timeout && e.Status >= 500
}

// IsTransportError unwraps err into a *Error if there is one.
func IsTransportError(err error) (*Error, bool) {
	var tErr *Error
	ok := errors.As(err, &tErr)
	return tErr, ok
}

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool {
	tErr, ok := IsTransportError(err)
	return ok && tErr.Timeout
}
