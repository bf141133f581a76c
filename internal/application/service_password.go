package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/marketloop/auth-service/internal/domain"
)

// ForgotPassword issues a reset token for the account behind the email. The
// return value is identical whether or not the account exists, and identical
// when internal processing fails: every outcome is the uniform success. Real
// failures are logged server-side only.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.ErrorContext(ctx, "forgot password lookup failed", slog.String("error", err.Error()))
		}
		return nil
	}
	if user.Suspended || user.Status == domain.StatusSuspended {
		return nil
	}

	rawToken := randomHex(32)
	now := s.nowFn()
	// Storing the new fingerprint replaces any prior token, which is thereby
	// invalidated.
	if err := s.users.SetResetToken(ctx, user.UserID, hashToken(rawToken), now.Add(s.cfg.ResetTokenTTL), now); err != nil {
		s.logger.ErrorContext(ctx, "reset token store failed",
			slog.String("user_id", user.UserID.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Email, rawToken); err != nil {
		s.logger.WarnContext(ctx, "reset email send failed",
			slog.String("user_id", user.UserID.String()),
			slog.String("error", err.Error()),
		)
	}
	s.emitAudit(ctx, "auth.password.reset_requested", nil, &user.UserID, user.Role, user.ShopID, nil)
	return nil
}

// ResetPassword consumes a reset token. The same-password check runs against
// the hash the account had before the reset, and every active session is
// revoked once the new password is committed.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) (ResetPasswordResponse, error) {
	if req.Token == "" {
		return ResetPasswordResponse{}, fmt.Errorf("%w: token is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidatePassword(req.NewPassword); err != nil {
		return ResetPasswordResponse{}, err
	}

	now := s.nowFn()
	user, err := s.users.GetByResetToken(ctx, hashToken(req.Token), now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ResetPasswordResponse{}, domain.ErrInvalidOrExpiredToken
		}
		return ResetPasswordResponse{}, err
	}

	if s.hasher.Compare(user.PasswordHash, req.NewPassword) == nil {
		return ResetPasswordResponse{}, domain.ErrSamePassword
	}

	newHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return ResetPasswordResponse{}, fmt.Errorf("hash password: %w", err)
	}

	// UpdatePassword clears the reset fields in the same write, so the token
	// is single-use. Revocation runs only after this commits.
	if err := s.users.UpdatePassword(ctx, user.UserID, newHash, now); err != nil {
		return ResetPasswordResponse{}, err
	}

	if _, err := s.sessions.RevokeAll(ctx, user.UserID, now); err != nil {
		s.logger.ErrorContext(ctx, "cascading revocation failed after reset",
			slog.String("user_id", user.UserID.String()),
			slog.String("error", err.Error()),
		)
		return ResetPasswordResponse{}, err
	}

	s.emitAudit(ctx, "auth.password.reset", &user.UserID, &user.UserID, user.Role, user.ShopID, nil)
	return ResetPasswordResponse{UserID: user.UserID}, nil
}

// ChangePassword replaces the password of an authenticated user. The current
// password is verified before anything else, including the policy check on
// the new one.
func (s *Service) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}

	if err := s.hasher.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		s.emitAudit(ctx, "auth.password.change_failed", &user.UserID, &user.UserID, user.Role, user.ShopID, map[string]any{
			"reason": "invalid_current_password",
		})
		return domain.ErrInvalidCredentials
	}

	if err := domain.ValidatePassword(req.NewPassword); err != nil {
		return err
	}
	if req.NewPassword == req.CurrentPassword {
		return domain.ErrSamePassword
	}

	newHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.nowFn()
	if err := s.users.UpdatePassword(ctx, user.UserID, newHash, now); err != nil {
		return err
	}

	// Sequenced after the password write commits: a concurrent refresh can
	// never see the old session once the new password is visible.
	if _, err := s.sessions.RevokeAll(ctx, user.UserID, now); err != nil {
		s.logger.ErrorContext(ctx, "cascading revocation failed after change",
			slog.String("user_id", user.UserID.String()),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.emitAudit(ctx, "auth.password.changed", &user.UserID, &user.UserID, user.Role, user.ShopID, nil)
	return nil
}
