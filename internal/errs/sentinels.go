// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Validation failures.
var (
	// ErrEmptyBody indicates an empty message/ticket body or empty credentials.
	ErrEmptyBody = errors.New("empty body")

	// ErrNameNotAllowed indicates a display name outside the fixed allow-list.
	ErrNameNotAllowed = errors.New("name not allowed")

	// ErrNameTaken indicates the normalized display name is already registered.
	ErrNameTaken = errors.New("name taken")
)

// Authentication/authorization failures.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrWrongSecret indicates the secret did not match for an existing identity.
	ErrWrongSecret = errors.New("wrong secret")

	// ErrNotAuthorized indicates the actor lacks the administrator role.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrUnauthenticated indicates a missing, expired or revoked session token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")
)

// State failures.
var (
	// ErrBanned indicates the identity is banned and may not authenticate.
	ErrBanned = errors.New("banned")

	// ErrSenderBanned indicates the sending identity is banned.
	ErrSenderBanned = errors.New("sender banned")

	// ErrRecipientBanned indicates the receiving identity is banned.
	ErrRecipientBanned = errors.New("recipient banned")

	// ErrCannotBanAdmin indicates an attempt to ban an administrator.
	ErrCannotBanAdmin = errors.New("cannot ban administrator")
)
