package domain

import "errors"

var (
	// ErrClientNotFound is returned when no client exists for the given ID
	ErrClientNotFound = errors.New("client not found")

	// ErrInvalidRedirectURI is returned when a redirect URI set is empty,
	// malformed, or not registered for the client
	ErrInvalidRedirectURI = errors.New("invalid redirect uri")

	// ErrMissingState is returned when an authorization request omits the
	// required state parameter
	ErrMissingState = errors.New("state parameter is required")

	// ErrInvalidCodeChallengeMethod is returned when the challenge method is
	// not the supported S256 method
	ErrInvalidCodeChallengeMethod = errors.New("unsupported code challenge method")

	// ErrSessionNotFound is returned when a session does not exist or has
	// expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidSessionState is returned when an operation is not valid for
	// the session's current status
	ErrInvalidSessionState = errors.New("invalid session state")

	// ErrSubjectAlreadyBound is returned when login confirmation races or
	// repeats against a session that already carries a subject
	ErrSubjectAlreadyBound = errors.New("session already bound to a subject")

	// ErrSessionOwnerMismatch is returned when the caller is not the subject
	// bound to the session
	ErrSessionOwnerMismatch = errors.New("caller does not match session owner")

	// ErrCodeNotFound is returned when an authorization code is missing,
	// consumed, or expired
	ErrCodeNotFound = errors.New("authorization code not found")

	// ErrInvalidGrant is the coarse token-endpoint failure; every grant
	// validation error collapses into it so callers cannot probe which
	// check failed
	ErrInvalidGrant = errors.New("invalid grant")

	// ErrRefreshTokenNotFound is returned when a refresh token does not exist
	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	// ErrRefreshTokenRevoked is returned when a rotated or revoked refresh
	// token is presented again
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")

	// ErrUnauthenticated is returned when the identity collaborator supplies
	// no subject for a request
	ErrUnauthenticated = errors.New("request carries no authenticated subject")

	// ErrPaymentSetup is returned when the payment collaborator reports a
	// failed setup; the session stays in its pre-call status
	ErrPaymentSetup = errors.New("payment setup failed")

	// ErrTokenGeneration is returned when signing an access token fails
	ErrTokenGeneration = errors.New("failed to generate token")

	// ErrInvalidToken is returned when a bearer token fails verification
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a bearer token is past its expiry
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidKeyConfig is returned when the signing strategy cannot load
	// or produce key material
	ErrInvalidKeyConfig = errors.New("invalid key configuration")

	// ErrInternal is returned when there is an internal server error
	ErrInternal = errors.New("internal server error")
)
