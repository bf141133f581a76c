package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marketloop/auth-service/internal/domain"
	"github.com/marketloop/auth-service/internal/ports"
)

// dummyPasswordHash is a syntactically valid bcrypt hash of a throwaway value.
// Comparing against it costs the same as a real mismatch.
const dummyPasswordHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	return trimmed, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(token)))
	return hex.EncodeToString(sum[:])
}

func randomHex(bytesLen int) string {
	raw := make([]byte, bytesLen)
	_, _ = rand.Read(raw)
	return hex.EncodeToString(raw)
}

// randomDigits returns a zero-padded numeric code for email verification.
func randomDigits(size int) string {
	if size <= 0 {
		size = 6
	}
	max := uint64(1)
	for i := 0; i < size; i++ {
		max *= 10
	}
	raw := make([]byte, 8)
	_, _ = rand.Read(raw)
	value := binary.BigEndian.Uint64(raw) % max
	return fmt.Sprintf("%0*d", size, value)
}

// emitAudit enqueues a security event into the outbox. Fire-and-forget:
// enqueue failures are logged and never surfaced to the caller.
func (s *Service) emitAudit(ctx context.Context, eventType string, actorID, targetID *uuid.UUID, role domain.Role, shopID *uuid.UUID, details map[string]any) {
	payload, _ := json.Marshal(details)
	err := s.audit.Enqueue(ctx, ports.AuditEvent{
		EventID:    uuid.New(),
		EventType:  eventType,
		ActorID:    actorID,
		TargetID:   targetID,
		Role:       role,
		ShopID:     shopID,
		Details:    payload,
		OccurredAt: s.nowFn(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "audit enqueue failed",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}

// lockKey scopes lockout counters to the login flow.
func lockKey(email string) string {
	return "login:" + email
}

func resendKey(email string) string {
	return "resend:" + email
}

// loginAllowed reports whether the lockout window currently blocks the
// account. The lockout store fails open: on a cache error login proceeds.
func (s *Service) loginAllowed(ctx context.Context, email string) bool {
	if s.cfg.FailedLoginThreshold <= 0 || s.lockouts == nil {
		return true
	}
	state, err := s.lockouts.Get(ctx, lockKey(email))
	if err != nil {
		s.logger.WarnContext(ctx, "lockout lookup failed", slog.String("error", err.Error()))
		return true
	}
	return state.LockedUntil.IsZero() || !state.LockedUntil.After(s.nowFn())
}

func (s *Service) recordLoginFailure(ctx context.Context, email string) {
	if s.cfg.FailedLoginThreshold <= 0 || s.lockouts == nil {
		return
	}
	state, err := s.lockouts.RecordFailure(ctx, lockKey(email), s.cfg.LockoutWindow, s.cfg.LockoutDuration, s.cfg.FailedLoginThreshold)
	if err != nil {
		s.logger.WarnContext(ctx, "lockout record failed", slog.String("error", err.Error()))
		return
	}
	if !state.LockedUntil.IsZero() && state.LockedUntil.After(s.nowFn()) {
		s.logger.InfoContext(ctx, "account locked after repeated failures",
			slog.Int("failures", state.Failures),
			slog.Time("locked_until", state.LockedUntil),
		)
	}
}

func (s *Service) clearLoginFailures(ctx context.Context, email string) {
	if s.lockouts == nil {
		return
	}
	if err := s.lockouts.Clear(ctx, lockKey(email)); err != nil {
		s.logger.WarnContext(ctx, "lockout clear failed", slog.String("error", err.Error()))
	}
}

// codeExpired treats an absent expiry as still valid so legacy records keep
// working.
func codeExpired(expires *time.Time, now time.Time) bool {
	return expires != nil && expires.Before(now)
}
