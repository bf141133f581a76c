package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/marketloop/auth-service/internal/domain"
)

// Config carries every tunable the engine reads. Injected at construction,
// never read ambiently.
type Config struct {
	AccessTokenTTL      time.Duration
	SessionTTL          time.Duration
	VerificationCodeTTL time.Duration
	ResetTokenTTL       time.Duration

	// FailedLoginThreshold 0 disables the lockout entirely.
	FailedLoginThreshold int
	LockoutWindow        time.Duration
	LockoutDuration      time.Duration
	ResendWindow         time.Duration
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Device   string `json:"device"`
	IP       string `json:"ip"`
}

// UserProfile is the sanitized view of a user returned to callers. Credential
// and token fields never appear here.
type UserProfile struct {
	UserID      uuid.UUID   `json:"user_id"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	ShopID      *uuid.UUID  `json:"shop_id,omitempty"`
	Status      string      `json:"status"`
	Verified    bool        `json:"verified"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

type LoginResponse struct {
	User         UserProfile `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	SessionID    uuid.UUID   `json:"session_id"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type LogoutResponse struct {
	Revoked bool `json:"revoked"`
}

type LogoutAllResponse struct {
	RevokedCount int64 `json:"revoked_count"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifyEmailResponse struct {
	User UserProfile `json:"user"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type ResetPasswordResponse struct {
	UserID uuid.UUID `json:"user_id"`
}

type ChangePasswordRequest struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

type SessionItem struct {
	SessionID uuid.UUID `json:"session_id"`
	Device    string    `json:"device"`
	IPAddress string    `json:"ip_address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toUserProfile(u domain.User) UserProfile {
	return UserProfile{
		UserID:      u.UserID,
		Email:       u.Email,
		Role:        u.Role,
		ShopID:      u.ShopID,
		Status:      string(u.Status),
		Verified:    u.IsFullyVerified(),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func toSessionItem(s domain.Session) SessionItem {
	return SessionItem{
		SessionID: s.SessionID,
		Device:    s.Device,
		IPAddress: s.IPAddress,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
