package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	UserID                  uuid.UUID  `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email                   string     `gorm:"column:email"`
	PasswordHash            string     `gorm:"column:password_hash"`
	Role                    string     `gorm:"column:role"`
	ShopID                  *uuid.UUID `gorm:"column:shop_id"`
	Status                  string     `gorm:"column:status"`
	Verified                bool       `gorm:"column:verified"`
	EmailVerified           bool       `gorm:"column:email_verified"`
	Suspended               bool       `gorm:"column:suspended"`
	VerificationCode        *string    `gorm:"column:verification_code"`
	VerificationCodeExpires *time.Time `gorm:"column:verification_code_expires"`
	ResetTokenHash          *string    `gorm:"column:reset_token_hash"`
	ResetTokenExpires       *time.Time `gorm:"column:reset_token_expires"`
	LastLoginAt             *time.Time `gorm:"column:last_login_at"`
	CreatedAt               time.Time  `gorm:"column:created_at"`
	UpdatedAt               time.Time  `gorm:"column:updated_at"`
	DeletedAt               *time.Time `gorm:"column:deleted_at"`
}

func (userModel) TableName() string { return "users" }

type sessionModel struct {
	SessionID uuid.UUID  `gorm:"column:session_id;type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id"`
	UserRole  string     `gorm:"column:user_role"`
	ShopID    *uuid.UUID `gorm:"column:shop_id"`
	Device    string     `gorm:"column:device"`
	IPAddress *string    `gorm:"column:ip_address"`
	TokenHash string     `gorm:"column:token_hash"`
	IsActive  bool       `gorm:"column:is_active"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	ExpiresAt time.Time  `gorm:"column:expires_at"`
	RevokedAt *time.Time `gorm:"column:revoked_at"`
}

func (sessionModel) TableName() string { return "sessions" }

type shopModel struct {
	ShopID    uuid.UUID  `gorm:"column:shop_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"column:name"`
	OwnerID   *uuid.UUID `gorm:"column:owner_id"`
	Verified  bool       `gorm:"column:verified"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (shopModel) TableName() string { return "shops" }

type auditOutboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	ActorID        *uuid.UUID `gorm:"column:actor_id"`
	TargetID       *uuid.UUID `gorm:"column:target_id"`
	Role           string     `gorm:"column:role"`
	ShopID         *uuid.UUID `gorm:"column:shop_id"`
	Details        string     `gorm:"column:details;type:jsonb"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (auditOutboxModel) TableName() string { return "audit_outbox" }
