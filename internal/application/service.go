// Package application holds the authentication engine: the login, refresh,
// verification and password state machines orchestrating the credential
// store, session manager, token issuer and the fire-and-forget collaborators
// (notifications, audit outbox, verification hook).
package application

import (
	"log/slog"
	"time"

	"github.com/marketloop/auth-service/internal/ports"
	"github.com/marketloop/auth-service/internal/sessions"
)

type Service struct {
	cfg      Config
	logger   *slog.Logger
	users    ports.UserRepository
	sessions *sessions.Manager
	tokens   ports.TokenIssuer
	hasher   ports.PasswordHasher
	audit    ports.AuditRepository
	notifier ports.NotificationGateway
	lockouts ports.LockoutStore
	throttle ports.ThrottleStore
	hook     ports.VerificationHook
	nowFn    func() time.Time
}

type Dependencies struct {
	Config   Config
	Logger   *slog.Logger
	Users    ports.UserRepository
	Sessions *sessions.Manager
	Tokens   ports.TokenIssuer
	Hasher   ports.PasswordHasher
	Audit    ports.AuditRepository
	Notifier ports.NotificationGateway
	Lockouts ports.LockoutStore
	Throttle ports.ThrottleStore
	// Hook is optional; nil skips the cross-entity verification side effect.
	Hook ports.VerificationHook
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.VerificationCodeTTL <= 0 {
		cfg.VerificationCodeTTL = 24 * time.Hour
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:      cfg,
		logger:   logger,
		users:    deps.Users,
		sessions: deps.Sessions,
		tokens:   deps.Tokens,
		hasher:   deps.Hasher,
		audit:    deps.Audit,
		notifier: deps.Notifier,
		lockouts: deps.Lockouts,
		throttle: deps.Throttle,
		hook:     deps.Hook,
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
}
