package domain

import "errors"

// Error kinds surfaced to callers. Every failure leaving the core wraps one
// of these sentinels with a human-readable message, so transports can map
// the kind with errors.Is while keeping the message intact.
var (
	// ErrInvalidArgument covers bad input, failed business validation,
	// duplicate accounts, and wrong credentials. Always caller-correctable.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotAuthenticated means no valid session or user context exists.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrForbidden means the caller is authenticated but lacks the role.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrOperation means the request was valid but the current state made
	// the operation impossible, e.g. logout without a login.
	ErrOperation = errors.New("operation failed")
	// ErrSystem wraps store write failures and other unexpected faults.
	// Transports log the cause and show a generic message.
	ErrSystem = errors.New("system error")
)
