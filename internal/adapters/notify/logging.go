// Package notify carries the outbound mail gateway. The logging gateway is
// the default delivery until an SMTP/provider integration is configured; it
// keeps the send contract observable without leaking secrets into logs.
package notify

import (
	"context"
	"log/slog"
)

type LoggingGateway struct {
	logger *slog.Logger
}

func NewLoggingGateway(logger *slog.Logger) *LoggingGateway {
	return &LoggingGateway{logger: logger}
}

func (g *LoggingGateway) SendVerificationCode(ctx context.Context, email, code string) error {
	g.logger.InfoContext(ctx, "verification email queued",
		"module", "notify",
		"operation", "send_verification_code",
		"email", email,
		"code_digits", len(code),
	)
	return nil
}

func (g *LoggingGateway) SendPasswordReset(ctx context.Context, email, token string) error {
	g.logger.InfoContext(ctx, "password reset email queued",
		"module", "notify",
		"operation", "send_password_reset",
		"email", email,
		"token_prefix", tokenPrefix(token),
	)
	return nil
}

func (g *LoggingGateway) SendWelcome(ctx context.Context, email string) error {
	g.logger.InfoContext(ctx, "welcome email queued",
		"module", "notify",
		"operation", "send_welcome",
		"email", email,
	)
	return nil
}

// tokenPrefix keeps reset tokens out of logs while leaving enough to
// correlate with support tickets.
func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:8]
}
