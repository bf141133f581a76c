package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/marketloop/auth-service/internal/domain"
)

// VerifyEmail consumes a (email, code) pair and moves the account from
// pending to active. The code is single-use: MarkVerified clears it, so a
// replay of the same pair fails.
func (s *Service) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (VerifyEmailResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return VerifyEmailResponse{}, err
	}
	if req.Code == "" {
		return VerifyEmailResponse{}, fmt.Errorf("%w: code is required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return VerifyEmailResponse{}, domain.ErrInvalidOrExpiredToken
		}
		return VerifyEmailResponse{}, err
	}

	now := s.nowFn()
	if user.VerificationCode == nil ||
		subtle.ConstantTimeCompare([]byte(*user.VerificationCode), []byte(req.Code)) != 1 ||
		codeExpired(user.VerificationCodeExpires, now) {
		return VerifyEmailResponse{}, domain.ErrInvalidOrExpiredToken
	}

	if err := s.users.MarkVerified(ctx, user.UserID, now); err != nil {
		return VerifyEmailResponse{}, err
	}
	user.Status = domain.StatusActive
	user.Verified = true
	user.EmailVerified = true
	user.VerificationCode = nil
	user.VerificationCodeExpires = nil

	// Cross-entity side effect: an admin's shop gets its verified flag set.
	// The user's own verification already committed, so a hook failure is
	// logged and swallowed.
	if s.hook != nil {
		if err := s.hook.OnUserVerified(ctx, user); err != nil {
			s.logger.ErrorContext(ctx, "verification hook failed",
				slog.String("user_id", user.UserID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.notifier.SendWelcome(ctx, user.Email); err != nil {
		s.logger.WarnContext(ctx, "welcome email send failed",
			slog.String("user_id", user.UserID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.emitAudit(ctx, "auth.email.verified", &user.UserID, &user.UserID, user.Role, user.ShopID, nil)
	return VerifyEmailResponse{User: toUserProfile(user)}, nil
}

// ResendVerification issues a new verification code. The response is the
// uniform success for every input: unknown accounts, already-verified
// accounts, throttled requests and internal failures all look the same from
// outside.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.ErrorContext(ctx, "resend verification lookup failed", slog.String("error", err.Error()))
		}
		return nil
	}
	if user.IsFullyVerified() || user.Suspended || user.Status == domain.StatusSuspended {
		return nil
	}

	if s.throttle != nil && s.cfg.ResendWindow > 0 {
		allowed, err := s.throttle.Allow(ctx, resendKey(normalized), s.cfg.ResendWindow)
		if err != nil {
			s.logger.WarnContext(ctx, "resend throttle check failed", slog.String("error", err.Error()))
		} else if !allowed {
			return nil
		}
	}

	code := randomDigits(6)
	now := s.nowFn()
	if err := s.users.SetVerificationCode(ctx, user.UserID, code, now.Add(s.cfg.VerificationCodeTTL), now); err != nil {
		s.logger.ErrorContext(ctx, "verification code store failed",
			slog.String("user_id", user.UserID.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if err := s.notifier.SendVerificationCode(ctx, user.Email, code); err != nil {
		s.logger.WarnContext(ctx, "verification email send failed",
			slog.String("user_id", user.UserID.String()),
			slog.String("error", err.Error()),
		)
	}
	return nil
}
