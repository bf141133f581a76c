package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a persisted refresh-token record. Role and shop are
// denormalised at creation so refresh can mint access tokens without a
// user lookup, and audit trails keep their shape if the user changes.
//
// Sessions are never deleted and never re-activated: the only mutation is
// flipping IsActive to false. ExpiresAt is fixed at creation; use does not
// slide it.
type Session struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	UserRole  Role
	ShopID    *uuid.UUID
	Device    string
	IPAddress string
	TokenHash string
	IsActive  bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its fixed expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
