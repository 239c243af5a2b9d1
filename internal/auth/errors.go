package auth

import "errors"

// Failure kinds surfaced by the auth service. Handlers map these onto
// HTTP statuses; anything more specific (which sub-check failed, whether
// a token was revoked vs. reused) stays server-side in the logs.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
