package service

import "errors"

// Session evaluation verdicts. Each failure is terminal for the request;
// none of them is retried. The first five require the client to
// re-authenticate, ErrStoreUnavailable surfaces as a server error.
var (
	ErrMissingCredential   = errors.New("missing auth token")
	ErrCredentialMalformed = errors.New("malformed auth token")
	ErrCredentialExpired   = errors.New("auth token expired")
	ErrUnknownUser         = errors.New("unknown user")
	ErrSessionEnded        = errors.New("session already ended")
	ErrSessionIdle         = errors.New("session expired due to inactivity")
	ErrStoreUnavailable    = errors.New("user store unavailable")
)

// Auth flow errors.
var (
	ErrInvalidCredentials = errors.New("invalid login details")
	ErrEmailTaken         = errors.New("email already registered")
	ErrResetCodeInvalid   = errors.New("invalid or expired reset code")
)
