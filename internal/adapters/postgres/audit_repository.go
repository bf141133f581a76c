package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marketloop/auth-service/internal/domain"
	"github.com/marketloop/auth-service/internal/ports"
)

type auditRepository struct {
	db *gorm.DB
}

func (r *auditRepository) Enqueue(ctx context.Context, event ports.AuditEvent) error {
	details := string(event.Details)
	if details == "" || details == "null" {
		details = "{}"
	}
	rec := auditOutboxModel{
		OutboxID:  event.EventID,
		EventType: event.EventType,
		ActorID:   event.ActorID,
		TargetID:  event.TargetID,
		Role:      string(event.Role),
		ShopID:    event.ShopID,
		Details:   details,
		CreatedAt: event.OccurredAt,
	}
	return storeErr(r.db.WithContext(ctx).Create(&rec).Error)
}

// ClaimUnpublished reserves a batch for one worker. SKIP LOCKED keeps
// concurrent workers from blocking each other, and the claim window lets a
// crashed worker's batch be reclaimed.
func (r *auditRepository) ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]ports.AuditRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	if claimToken == "" {
		return nil, fmt.Errorf("claim token is required")
	}

	now := time.Now().UTC()
	var rows []auditOutboxModel
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subquery := tx.Model(&auditOutboxModel{}).
			Select("outbox_id").
			Where("published_at IS NULL").
			Where("dead_lettered_at IS NULL").
			Where("claim_until IS NULL OR claim_until < ?", now).
			Order("created_at ASC").
			Limit(limit).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})

		if err := tx.Model(&auditOutboxModel{}).
			Where("outbox_id IN (?)", subquery).
			Updates(map[string]any{
				"claim_token": claimToken,
				"claim_until": claimUntil,
			}).Error; err != nil {
			return err
		}

		return tx.Where("claim_token = ?", claimToken).
			Where("published_at IS NULL").
			Where("dead_lettered_at IS NULL").
			Order("created_at ASC").
			Find(&rows).Error
	}); err != nil {
		return nil, storeErr(err)
	}

	result := make([]ports.AuditRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, ports.AuditRecord{
			OutboxID:       row.OutboxID,
			EventType:      row.EventType,
			ActorID:        row.ActorID,
			TargetID:       row.TargetID,
			Role:           domain.Role(row.Role),
			ShopID:         row.ShopID,
			Details:        []byte(row.Details),
			RetryCount:     row.RetryCount,
			LastError:      row.LastError,
			CreatedAt:      row.CreatedAt,
			PublishedAt:    row.PublishedAt,
			ClaimToken:     row.ClaimToken,
			ClaimUntil:     row.ClaimUntil,
			DeadLetteredAt: row.DeadLetteredAt,
		})
	}
	return result, nil
}

func (r *auditRepository) MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&auditOutboxModel{}).
		Where("outbox_id = ?", outboxID).
		Where("claim_token = ?", claimToken).
		Updates(map[string]any{
			"published_at": at,
			"claim_token":  nil,
			"claim_until":  nil,
		}).Error
	return storeErr(err)
}

func (r *auditRepository) MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&auditOutboxModel{}).
		Where("outbox_id = ?", outboxID).
		Where("claim_token = ?", claimToken).
		Updates(map[string]any{
			"retry_count":   gorm.Expr("retry_count + 1"),
			"last_error":    errMsg,
			"last_error_at": at,
			"claim_token":   nil,
			"claim_until":   nil,
		}).Error
	return storeErr(err)
}

func (r *auditRepository) MarkDeadLettered(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&auditOutboxModel{}).
		Where("outbox_id = ?", outboxID).
		Where("claim_token = ?", claimToken).
		Updates(map[string]any{
			"retry_count":      gorm.Expr("retry_count + 1"),
			"last_error":       errMsg,
			"last_error_at":    at,
			"dead_lettered_at": at,
			"claim_token":      nil,
			"claim_until":      nil,
		}).Error
	return storeErr(err)
}
