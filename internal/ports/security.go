package ports

import (
	"time"

	"github.com/google/uuid"

	"github.com/marketloop/auth-service/internal/domain"
)

// PasswordHasher abstracts the credential hash so tests can swap in a fast
// fake. Compare returns domain.ErrInvalidCredentials on mismatch.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// AccessClaims is the decoded payload of a verified access token.
type AccessClaims struct {
	UserID    uuid.UUID
	Email     string
	Role      domain.Role
	ShopID    *uuid.UUID
	SessionID uuid.UUID
	ExpiresAt time.Time
}

// MintParams carries the identity snapshot embedded into an access token.
type MintParams struct {
	UserID    uuid.UUID
	Email     string
	Role      domain.Role
	ShopID    *uuid.UUID
	SessionID uuid.UUID
}

// TokenIssuer mints and verifies short-lived access tokens. Verify
// distinguishes expiry (domain.ErrAccessTokenExpired) from everything else
// (domain.ErrAccessTokenInvalid); Mint fails with
// domain.ErrSigningUnavailable when no signing secret is configured.
type TokenIssuer interface {
	Mint(params MintParams, now time.Time) (token string, expiresAt time.Time, err error)
	Verify(token string, now time.Time) (AccessClaims, error)
}
