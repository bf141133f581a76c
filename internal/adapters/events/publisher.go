package events

import (
	"context"
	"log/slog"

	"github.com/marketloop/auth-service/internal/ports"
)

// LoggingPublisher writes audit records to the structured log. Stands in for
// a broker until one is provisioned.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, record ports.AuditRecord) error {
	attrs := []any{
		"event_type", record.EventType,
		"outbox_id", record.OutboxID,
		"occurred_at", record.CreatedAt,
		"details", string(record.Details),
	}
	if record.ActorID != nil {
		attrs = append(attrs, "actor_id", record.ActorID.String())
	}
	if record.TargetID != nil {
		attrs = append(attrs, "target_id", record.TargetID.String())
	}
	if record.ShopID != nil {
		attrs = append(attrs, "shop_id", record.ShopID.String())
	}
	p.logger.InfoContext(ctx, "audit event published", attrs...)
	return nil
}
