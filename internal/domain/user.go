package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the fixed set of roles the platform recognises.
type Role string

const (
	RoleSuperAdmin Role = "superAdmin"
	RoleAdmin      Role = "admin"
	RoleEmployee   Role = "employee"
)

// Status is the account lifecycle state relevant to login.
// pending -> active on email verification; suspended is terminal until
// manual reintervention.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// User is the canonical authentication identity referenced by the engine.
// Verification and reset state live on the record itself: both are
// single-use and must be cleared by the same write that consumes them.
type User struct {
	UserID       uuid.UUID
	Email        string
	PasswordHash string
	Role         Role
	ShopID       *uuid.UUID

	Status        Status
	Verified      bool
	EmailVerified bool
	Suspended     bool

	VerificationCode        *string
	VerificationCodeExpires *time.Time
	ResetTokenHash          *string
	ResetTokenExpires       *time.Time

	LastLoginAt *time.Time
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanConsumeSessions reports whether the account may still use its sessions.
// Deletion and suspension are checked at session-consuming time rather than
// enforced by cascading deletes.
func (u User) CanConsumeSessions() bool {
	return u.DeletedAt == nil && !u.Suspended && u.Status != StatusSuspended
}

// IsFullyVerified requires both verification flags; they are redundant in
// well-formed records but checked independently to tolerate legacy rows.
func (u User) IsFullyVerified() bool {
	return u.Verified && u.EmailVerified
}
