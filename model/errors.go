package model

import "errors"

// ErrStore marks any underlying document store failure. Repositories wrap
// the cause so callers can still unwrap it.
var ErrStore = errors.New("store error")

// ErrNotFound is returned when a document or list element is missing.
var ErrNotFound = errors.New("not found")

// ValidationError reports rejected input (password policy, bad enum values,
// confirmation mismatches). Always mapped to a 400 by the controllers.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Identity provider error codes surfaced by the password flows.
const (
	AuthWrongPassword       = "wrong-password"
	AuthWeakPassword        = "weak-password"
	AuthRequiresRecentLogin = "requires-recent-login"
	AuthTooManyRequests     = "too-many-requests"
	AuthNetworkFailure      = "network-failure"
)

// AuthError wraps identity provider failures with a stable code.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string { return e.Message }
