package model

import (
	"errors"
	"fmt"
)

// ErrNoSessionData marks a date with no trading session (holiday, or the
// endpoint published a placeholder row). It is a skip, not a failure.
var ErrNoSessionData = errors.New("no session data for date")

// FetchError wraps a transport or HTTP-layer failure that survived the
// retry loop.
type FetchError struct {
	Endpoint string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.Endpoint, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// InvariantViolationError means parsed values failed a sanity check.
// It signals upstream schema drift: the request succeeded but we most
// likely read the wrong cells.
type InvariantViolationError struct {
	Endpoint string
	Detail   string
	Values   []float64
	Raw      string // snippet of the offending row, for diagnosis
}

func (e *InvariantViolationError) Error() string {
	msg := fmt.Sprintf("invariant violation: %s (values %v)", e.Detail, e.Values)
	if e.Endpoint != "" {
		msg = e.Endpoint + ": " + msg
	}
	if e.Raw != "" {
		msg += fmt.Sprintf(", raw row: %q", e.Raw)
	}
	return msg
}
