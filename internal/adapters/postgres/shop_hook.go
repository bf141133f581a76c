package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/marketloop/auth-service/internal/domain"
)

// shopVerificationHook propagates a freshly verified admin onto their shop.
// The engine treats this as best-effort; errors here never undo the user's
// own verification.
type shopVerificationHook struct {
	db *gorm.DB
}

func (h *shopVerificationHook) OnUserVerified(ctx context.Context, user domain.User) error {
	if user.Role != domain.RoleAdmin || user.ShopID == nil {
		return nil
	}
	err := h.db.WithContext(ctx).
		Model(&shopModel{}).
		Where("shop_id = ?", *user.ShopID).
		Where("verified = FALSE").
		Updates(map[string]any{
			"verified":   true,
			"updated_at": time.Now().UTC(),
		}).Error
	return storeErr(err)
}
