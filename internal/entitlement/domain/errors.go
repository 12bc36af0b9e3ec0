package domain

import "errors"

var (
	// ErrUnauthorized indicates the bearer credential is missing, malformed, or
	// does not resolve to a known user.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredential is returned by verifiers when the credential itself
	// is rejected. The evaluator reports it as ErrUnauthorized so callers
	// cannot probe which accounts exist.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrBackendUnavailable indicates the record store or identity verifier
	// failed for a reason other than a bad credential. The caller may retry.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
