package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketloop/auth-service/internal/domain"
	"github.com/marketloop/auth-service/internal/ports"
)

type sessionRepository struct {
	db *gorm.DB
}

func (r *sessionRepository) Insert(ctx context.Context, params ports.SessionCreateParams) (domain.Session, error) {
	rec := sessionModel{
		SessionID: params.SessionID,
		UserID:    params.UserID,
		UserRole:  string(params.UserRole),
		ShopID:    params.ShopID,
		Device:    params.Device,
		IPAddress: nullableString(params.IPAddress),
		TokenHash: params.TokenHash,
		IsActive:  true,
		CreatedAt: params.CreatedAt,
		ExpiresAt: params.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Session{}, storeErr(err)
	}
	return toDomainSession(rec), nil
}

func (r *sessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error) {
	var rec sessionModel
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, storeErr(err)
	}
	return toDomainSession(rec), nil
}

func (r *sessionRepository) CountActive(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("user_id = ?", userID).
		Where("is_active = TRUE").
		Count(&count).Error
	if err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

func (r *sessionRepository) OldestActive(ctx context.Context, userID uuid.UUID) (domain.Session, error) {
	var rec sessionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("is_active = TRUE").
		Order("created_at ASC").
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, storeErr(err)
	}
	return toDomainSession(rec), nil
}

// Revoke flips one active session to inactive. Zero affected rows means the
// token was unknown or already revoked, reported as false rather than an
// error.
func (r *sessionRepository) Revoke(ctx context.Context, tokenHash string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("token_hash = ?", tokenHash).
		Where("is_active = TRUE").
		Updates(map[string]any{
			"is_active":  false,
			"revoked_at": at,
		})
	if res.Error != nil {
		return false, storeErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *sessionRepository) RevokeAllByUser(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("user_id = ?", userID).
		Where("is_active = TRUE").
		Updates(map[string]any{
			"is_active":  false,
			"revoked_at": at,
		})
	if res.Error != nil {
		return 0, storeErr(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *sessionRepository) RevokeAllExcept(ctx context.Context, userID uuid.UUID, keepTokenHash string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("user_id = ?", userID).
		Where("is_active = TRUE").
		Where("token_hash <> ?", keepTokenHash).
		Updates(map[string]any{
			"is_active":  false,
			"revoked_at": at,
		})
	if res.Error != nil {
		return 0, storeErr(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Session, error) {
	var rows []sessionModel
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if err := query.Find(&rows).Error; err != nil {
		return nil, storeErr(err)
	}
	result := make([]domain.Session, 0, len(rows))
	for _, item := range rows {
		result = append(result, toDomainSession(item))
	}
	return result, nil
}
