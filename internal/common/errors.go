// Package common defines the closed set of sentinel errors shared across
// the helper's layers, plus small crypto-random helpers. Callers match
// these values with errors.Is.
package common

import "errors"

var (
	// repository-level errors
	ErrNotFound = errors.New("not found")

	// protocol errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrNoRecoveryKey means the target account never registered the helper
	// key, so recovery signatures cannot be anchored to anything. This is an
	// account-setup problem, kept distinct from ErrUnauthorized on purpose.
	ErrNoRecoveryKey = errors.New("account has no recovery key")

	// ErrUpstream covers remote gateway and notification transport failures.
	ErrUpstream = errors.New("upstream failure")

	// ErrValidation covers malformed input rejected before any state change.
	ErrValidation = errors.New("validation error")
)
