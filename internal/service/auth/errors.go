package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong
	// password, deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized means the access token failed verification.
	ErrUnauthorized = errors.New("invalid or expired token")

	// ErrSessionExpired means the token was valid but its server-side
	// session is gone (logged out or timed out).
	ErrSessionExpired = errors.New("session expired")
)
