package ports

import "context"

// EventPublisher delivers claimed audit records to their downstream sink.
// Publish must be safe to retry; the outbox worker re-claims on failure.
type EventPublisher interface {
	Publish(ctx context.Context, record AuditRecord) error
}
