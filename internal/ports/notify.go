package ports

import "context"

// NotificationGateway sends user-facing mail. Send failures after a
// successful state change are logged and swallowed; responses stay uniform
// regardless of delivery outcome.
type NotificationGateway interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendPasswordReset(ctx context.Context, email, token string) error
	SendWelcome(ctx context.Context, email string) error
}
