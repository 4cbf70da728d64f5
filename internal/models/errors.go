package models

import "errors"

// Deny and failure reasons returned by the resolver, the guard and the
// state machines. Handlers match these with errors.Is and map each to a
// distinct status code; nothing inspects message text.
var (
	// ErrInvalidCredential covers malformed tokens, bad signatures and
	// expiry. Clients see a uniform 401; the specific cause is logged.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrIdentityProviderUnavailable is a transient key-fetch failure,
	// not a judgment about the credential. Retryable.
	ErrIdentityProviderUnavailable = errors.New("identity provider unavailable")

	// ErrHostSuspended fails host-scoped operations for a suspended
	// host account. The admin axis is unaffected.
	ErrHostSuspended = errors.New("host account suspended")

	// ErrNotOwner is the guard's deny for non-admin, non-owner actors.
	ErrNotOwner = errors.New("not the owner of this resource")

	// ErrIllegalState is a state-machine violation, including a stale
	// expected state losing a concurrent conditional update.
	ErrIllegalState = errors.New("operation not allowed in current state")

	ErrNotFound = errors.New("not found")

	// ErrWrongPassword is the share gate's deny for a bad password on a
	// protected event.
	ErrWrongPassword = errors.New("wrong password")

	// ErrNotAvailable is the uniform public deny for draft, suspended
	// and deleted events, so visitors cannot distinguish them.
	ErrNotAvailable = errors.New("event not available")
)
