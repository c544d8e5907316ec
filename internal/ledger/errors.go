// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ledger

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrUnreachable = errors.New("ledger: host unreachable or transport failure")
	ErrTimeout     = errors.New("ledger: request timed out")
	ErrServerError = errors.New("ledger: internal error (5xx)")
	ErrNotFound    = errors.New("ledger: resource not found")
	ErrRejected    = errors.New("ledger: request rejected")
	ErrBadResponse = errors.New("ledger: invalid response format or malformed data")
	ErrCircuitOpen = errors.New("ledger: circuit breaker is open")
	ErrNoSession   = errors.New("ledger: no viewing session")
)

// Error wraps a sentinel with the failing operation and HTTP context.
type Error struct {
	Sentinel error
	Op       string
	Status   int
	Body     string
	Err      error // lower-level cause, e.g. net.Error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("ledger: %s: %v", e.Op, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Sentinel}
	}
	return []error{e.Sentinel, e.Err}
}

// IsUnreachable reports whether err means the ledger could not serve the
// request at all, as opposed to refusing it.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServerError) ||
		errors.Is(err, ErrCircuitOpen)
}
