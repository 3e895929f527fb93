// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the caller does not own the resource it tries to modify.
	ErrUnauthorized = errors.New("unauthorized, no permission to modify the resource")

	// ErrWrongPassword indicates an unknown email or a password mismatch on login.
	ErrWrongPassword = errors.New("wrong credentials combination")

	// ErrInvalidToken indicates a session token that failed verification.
	ErrInvalidToken = errors.New("auth token could not be deciphered")

	// ErrTokenExpired is joined with ErrInvalidToken when the token is outside its validity window.
	ErrTokenExpired = errors.New("auth token expired or not valid yet")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation indicates a malformed request payload.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPagination is matched by every *PaginationError.
	ErrInvalidPagination = errors.New("invalid pagination parameters")

	// ErrDatabase is matched by every *DatabaseError.
	ErrDatabase = errors.New("database query failed")
)

// Failure kinds of the external profanity API.
var (
	// ErrExternalClient marks a 4xx answer of the remote API (our request was at fault).
	ErrExternalClient = errors.New("external client error")

	// ErrExternalServer marks a 5xx answer of the remote API.
	ErrExternalServer = errors.New("external server error")

	// ErrExternalTransport marks a network failure that survived every retry.
	ErrExternalTransport = errors.New("external API unreachable")

	// ErrExternalDecode marks a response body that matched no known shape.
	ErrExternalDecode = errors.New("external API returned malformed body")
)
