package postgres

import (
	"github.com/marketloop/auth-service/internal/domain"
)

func toDomainUser(rec userModel) domain.User {
	return domain.User{
		UserID:                  rec.UserID,
		Email:                   rec.Email,
		PasswordHash:            rec.PasswordHash,
		Role:                    domain.Role(rec.Role),
		ShopID:                  rec.ShopID,
		Status:                  domain.Status(rec.Status),
		Verified:                rec.Verified,
		EmailVerified:           rec.EmailVerified,
		Suspended:               rec.Suspended,
		VerificationCode:        rec.VerificationCode,
		VerificationCodeExpires: rec.VerificationCodeExpires,
		ResetTokenHash:          rec.ResetTokenHash,
		ResetTokenExpires:       rec.ResetTokenExpires,
		LastLoginAt:             rec.LastLoginAt,
		CreatedAt:               rec.CreatedAt,
		UpdatedAt:               rec.UpdatedAt,
		DeletedAt:               rec.DeletedAt,
	}
}

func toDomainSession(rec sessionModel) domain.Session {
	var ip string
	if rec.IPAddress != nil {
		ip = *rec.IPAddress
	}
	return domain.Session{
		SessionID: rec.SessionID,
		UserID:    rec.UserID,
		UserRole:  domain.Role(rec.UserRole),
		ShopID:    rec.ShopID,
		Device:    rec.Device,
		IPAddress: ip,
		TokenHash: rec.TokenHash,
		IsActive:  rec.IsActive,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}
}

func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
