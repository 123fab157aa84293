package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Request Gate Errors.

	// ErrInvalidTarget indicates the request target was rejected by the sanitizer.
	// No network request is made.
	ErrInvalidTarget = errors.New("invalid request target")

	// ErrUnauthenticated indicates no access token could be obtained.
	// No network request is made.
	ErrUnauthenticated = errors.New("unauthenticated")

	// Refresh Errors.
	// These classify a failed refresh for logging and metrics only;
	// callers of Refresh observe a missing token.

	// ErrNetwork indicates the token exchange could not be attempted or completed.
	ErrNetwork = errors.New("token exchange network failure")

	// ErrInvalidCredential indicates no refresh token is available.
	ErrInvalidCredential = errors.New("no refresh token available")

	// ErrServerRejected indicates the exchange reached the server but was
	// rejected or returned a payload without an access token.
	ErrServerRejected = errors.New("token exchange rejected")
)
