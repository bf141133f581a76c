package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/marketloop/auth-service/internal/domain"
)

// UserRepository is the credential-store boundary. Every lookup excludes
// soft-deleted records; the engine never sees them.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error

	// SetVerificationCode replaces any prior code; the old one is
	// implicitly invalidated.
	SetVerificationCode(ctx context.Context, userID uuid.UUID, code string, expiresAt, at time.Time) error
	// MarkVerified flips status to active, sets both verification flags and
	// clears the code fields in one write.
	MarkVerified(ctx context.Context, userID uuid.UUID, at time.Time) error

	// SetResetToken stores the fingerprint of a new reset token, replacing
	// any prior token.
	SetResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt, at time.Time) error
	// GetByResetToken resolves an unexpired, unconsumed reset token
	// fingerprint to its owner.
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (domain.User, error)
	// UpdatePassword replaces the credential hash and clears reset state in
	// the same write; session revocation is sequenced after it commits.
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, at time.Time) error
}

// SessionCreateParams captures the insert for a new session record. The
// token fingerprint is computed by the session manager; the raw token never
// reaches the store.
type SessionCreateParams struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	UserRole  domain.Role
	ShopID    *uuid.UUID
	Device    string
	IPAddress string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionRepository persists session lifecycle. Rows are insert-then-flip:
// revocation sets is_active false, nothing is deleted or re-activated.
type SessionRepository interface {
	Insert(ctx context.Context, params SessionCreateParams) (domain.Session, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error)
	CountActive(ctx context.Context, userID uuid.UUID) (int64, error)
	// OldestActive returns the active session with the earliest CreatedAt,
	// the eviction candidate when the ceiling is hit.
	OldestActive(ctx context.Context, userID uuid.UUID) (domain.Session, error)
	// Revoke flips one session inactive; returns false when nothing matched
	// an active row, so retried logouts are no-ops.
	Revoke(ctx context.Context, tokenHash string, at time.Time) (bool, error)
	RevokeAllByUser(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	RevokeAllExcept(ctx context.Context, userID uuid.UUID, keepTokenHash string, at time.Time) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Session, error)
}

// AuditEvent is a security/auth event prior to storage.
type AuditEvent struct {
	EventID    uuid.UUID
	EventType  string
	ActorID    *uuid.UUID
	TargetID   *uuid.UUID
	Role       domain.Role
	ShopID     *uuid.UUID
	Details    []byte
	OccurredAt time.Time
}

// AuditRecord is the durable outbox row, including retry/claim metadata so
// delivery can survive restarts without double-publishing inside a claim
// window.
type AuditRecord struct {
	OutboxID       uuid.UUID
	EventType      string
	ActorID        *uuid.UUID
	TargetID       *uuid.UUID
	Role           domain.Role
	ShopID         *uuid.UUID
	Details        []byte
	RetryCount     int
	LastError      *string
	CreatedAt      time.Time
	PublishedAt    *time.Time
	ClaimToken     *string
	ClaimUntil     *time.Time
	DeadLetteredAt *time.Time
}

// AuditRepository is the transactional-outbox contract for audit events.
// The engine only enqueues; the worker owns claim/publish/retry.
type AuditRepository interface {
	Enqueue(ctx context.Context, event AuditEvent) error
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]AuditRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
	MarkDeadLettered(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
}

// VerificationHook is the optional cross-entity side effect of a successful
// email verification (an admin's shop gets its own verified flag). Failures
// are logged by the caller and never propagated: user verification must not
// fail because of it.
type VerificationHook interface {
	OnUserVerified(ctx context.Context, user domain.User) error
}
