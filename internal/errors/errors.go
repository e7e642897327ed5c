// Package errors defines the error taxonomy shared across wardlink and the
// handlers that surface errors to the user.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes the client distinguishes.
// Callers classify with errors.Is and decide on degradation locally:
// a network failure degrades to a cache lookup, a channel close schedules
// a reconnect, an install failure aborts the install step entirely.
var (
	// ErrNetworkFailure indicates a fetch was rejected or timed out.
	ErrNetworkFailure = errors.New("network failure")
	// ErrCacheMiss indicates no stored entry exists for a cache key.
	ErrCacheMiss = errors.New("cache miss")
	// ErrChannelClosed indicates a realtime channel closed, with or without error.
	ErrChannelClosed = errors.New("channel closed")
	// ErrValidationFailure indicates a client-side field rejected its value.
	ErrValidationFailure = errors.New("validation failure")
	// ErrInstallFailure indicates a precache install step failed as a whole.
	ErrInstallFailure = errors.New("install failure")
)

// Network wraps err as a network failure.
func Network(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrNetworkFailure, err)
}

// Install wraps err as an install failure.
func Install(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInstallFailure, err)
}

// Validation reports a validation failure for the named field.
func Validation(field, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrValidationFailure, field, reason)
}
