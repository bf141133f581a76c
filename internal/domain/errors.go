package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Adapters map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether email or password failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountSuspended is returned before password comparison for
	// suspended accounts. Distinct wording is a business requirement even
	// though it leaks account existence.
	ErrAccountSuspended = errors.New("account suspended")
	// ErrAccountNotVerified signals correct credentials on an account that
	// has not completed email verification.
	ErrAccountNotVerified = errors.New("account not verified")
	// ErrAccountLocked signals temporary lockout after repeated failed
	// attempts.
	ErrAccountLocked = errors.New("account locked")
	// ErrInvalidOrExpiredToken covers verification codes and reset tokens:
	// missing, expired, or already consumed all look the same to callers.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	// ErrSamePassword rejects a new password identical to the current one.
	ErrSamePassword = errors.New("new password must differ from current password")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired or revoked")

	// ErrAccessTokenExpired and ErrAccessTokenInvalid split verification
	// failures so callers can prompt a refresh only when it would help.
	ErrAccessTokenExpired = errors.New("access token expired")
	ErrAccessTokenInvalid = errors.New("access token invalid")

	// ErrSigningUnavailable is a configuration fault: no signing secret.
	ErrSigningUnavailable = errors.New("token signing unavailable")
	// ErrStoreUnavailable wraps infrastructure failures from the record
	// stores; retryable, never surfaced with internal detail.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrInvalidInput = errors.New("invalid input")
	ErrRateLimited  = errors.New("rate limited")
)
