package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketloop/auth-service/internal/domain"
)

type userRepository struct {
	db *gorm.DB
}

// live scopes every query to non-deleted records.
func (r *userRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("deleted_at IS NULL")
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var rec userModel
	if err := r.live(ctx).Where("lower(email) = lower(?)", email).Take(&rec).Error; err != nil {
		return domain.User{}, storeErr(err)
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var rec userModel
	if err := r.live(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		return domain.User{}, storeErr(err)
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	err := r.live(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"last_login_at": at,
			"updated_at":    at,
		}).Error
	return storeErr(err)
}

func (r *userRepository) SetVerificationCode(ctx context.Context, userID uuid.UUID, code string, expiresAt, at time.Time) error {
	err := r.live(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"verification_code":         code,
			"verification_code_expires": expiresAt,
			"updated_at":                at,
		}).Error
	return storeErr(err)
}

func (r *userRepository) MarkVerified(ctx context.Context, userID uuid.UUID, at time.Time) error {
	err := r.live(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"status":                    string(domain.StatusActive),
			"verified":                  true,
			"email_verified":            true,
			"verification_code":         nil,
			"verification_code_expires": nil,
			"updated_at":                at,
		}).Error
	return storeErr(err)
}

func (r *userRepository) SetResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt, at time.Time) error {
	err := r.live(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"reset_token_hash":    tokenHash,
			"reset_token_expires": expiresAt,
			"updated_at":          at,
		}).Error
	return storeErr(err)
}

func (r *userRepository) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (domain.User, error) {
	var rec userModel
	err := r.live(ctx).
		Where("reset_token_hash = ?", tokenHash).
		Where("reset_token_expires IS NULL OR reset_token_expires > ?", now).
		Take(&rec).Error
	if err != nil {
		return domain.User{}, storeErr(err)
	}
	return toDomainUser(rec), nil
}

// UpdatePassword replaces the credential hash and clears any outstanding
// reset token in the same statement, so a consumed token cannot be replayed.
func (r *userRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, at time.Time) error {
	err := r.live(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"password_hash":       passwordHash,
			"reset_token_hash":    nil,
			"reset_token_expires": nil,
			"updated_at":          at,
		}).Error
	return storeErr(err)
}
