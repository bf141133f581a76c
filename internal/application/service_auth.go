package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/marketloop/auth-service/internal/domain"
	"github.com/marketloop/auth-service/internal/ports"
)

// Login runs the credential state machine. The response message for an
// unknown account and a wrong password is identical; only suspended accounts
// get a distinct error, and that branch is taken before the password check.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return LoginResponse{}, err
	}
	if req.Password == "" {
		return LoginResponse{}, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	if !s.loginAllowed(ctx, email) {
		return LoginResponse{}, domain.ErrAccountLocked
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Burn a compare against a throwaway hash so an unknown account
			// costs the same as a wrong password.
			_ = s.hasher.Compare(dummyPasswordHash, req.Password)
			s.recordLoginFailure(ctx, email)
			return LoginResponse{}, domain.ErrInvalidCredentials
		}
		return LoginResponse{}, err
	}

	if user.Suspended || user.Status == domain.StatusSuspended {
		s.emitAudit(ctx, "auth.login.suspended", nil, &user.UserID, user.Role, user.ShopID, map[string]any{
			"ip": req.IP,
		})
		return LoginResponse{}, domain.ErrAccountSuspended
	}

	// The password is compared whenever a record exists, even when the
	// account cannot log in yet, so response timing does not reveal account
	// state.
	passwordErr := s.hasher.Compare(user.PasswordHash, req.Password)
	if passwordErr != nil {
		s.recordLoginFailure(ctx, email)
		s.emitAudit(ctx, "auth.login.failed", nil, &user.UserID, user.Role, user.ShopID, map[string]any{
			"ip":     req.IP,
			"reason": "invalid_password",
		})
		return LoginResponse{}, domain.ErrInvalidCredentials
	}

	if user.Status != domain.StatusActive || !user.IsFullyVerified() {
		return LoginResponse{}, domain.ErrAccountNotVerified
	}

	s.clearLoginFailures(ctx, email)

	now := s.nowFn()
	created, err := s.sessions.Create(ctx, user, req.Device, req.IP, now)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("create session: %w", err)
	}

	accessToken, expiresAt, err := s.tokens.Mint(ports.MintParams{
		UserID:    user.UserID,
		Email:     user.Email,
		Role:      user.Role,
		ShopID:    user.ShopID,
		SessionID: created.Session.SessionID,
	}, now)
	if err != nil {
		// Roll the session back so a signing misconfiguration does not leave
		// a live refresh token behind.
		if _, revokeErr := s.sessions.Revoke(ctx, created.RawToken, now); revokeErr != nil {
			s.logger.ErrorContext(ctx, "session rollback failed", slog.String("error", revokeErr.Error()))
		}
		return LoginResponse{}, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.UserID, now); err != nil {
		s.logger.WarnContext(ctx, "last login update failed",
			slog.String("user_id", user.UserID.String()),
			slog.String("error", err.Error()),
		)
	}
	user.LastLoginAt = &now

	s.emitAudit(ctx, "auth.login.success", &user.UserID, &user.UserID, user.Role, user.ShopID, map[string]any{
		"ip":         req.IP,
		"device":     req.Device,
		"session_id": created.Session.SessionID,
	})

	return LoginResponse{
		User:         toUserProfile(user),
		AccessToken:  accessToken,
		RefreshToken: created.RawToken,
		ExpiresIn:    int64(expiresAt.Sub(now).Seconds()),
		SessionID:    created.Session.SessionID,
	}, nil
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token itself is never rotated or extended. The owning user is re-checked so
// deleted or suspended accounts cannot keep minting tokens.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error) {
	now := s.nowFn()
	session, err := s.sessions.LookupActive(ctx, refreshToken, now)
	if err != nil {
		return RefreshResponse{}, err
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return RefreshResponse{}, domain.ErrSessionNotFound
		}
		return RefreshResponse{}, err
	}
	if user.Suspended || user.Status == domain.StatusSuspended {
		return RefreshResponse{}, domain.ErrAccountSuspended
	}

	accessToken, expiresAt, err := s.tokens.Mint(ports.MintParams{
		UserID:    session.UserID,
		Email:     user.Email,
		Role:      session.UserRole,
		ShopID:    session.ShopID,
		SessionID: session.SessionID,
	}, now)
	if err != nil {
		return RefreshResponse{}, err
	}

	return RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(expiresAt.Sub(now).Seconds()),
	}, nil
}

// Logout revokes the session behind the refresh token. Revoking an unknown
// or already-revoked token reports Revoked=false, never an error, so retries
// are safe.
func (s *Service) Logout(ctx context.Context, refreshToken string) (LogoutResponse, error) {
	revoked, err := s.sessions.Revoke(ctx, refreshToken, s.nowFn())
	if err != nil {
		return LogoutResponse{}, err
	}
	return LogoutResponse{Revoked: revoked}, nil
}

// LogoutAll ends every active session for the user.
func (s *Service) LogoutAll(ctx context.Context, userID uuid.UUID) (LogoutAllResponse, error) {
	count, err := s.sessions.RevokeAll(ctx, userID, s.nowFn())
	if err != nil {
		return LogoutAllResponse{}, err
	}
	s.emitAudit(ctx, "auth.logout.all", &userID, &userID, "", nil, map[string]any{
		"revoked_count": count,
	})
	return LogoutAllResponse{RevokedCount: count}, nil
}

// LogoutOthers ends every active session for the user except the one holding
// the given refresh token.
func (s *Service) LogoutOthers(ctx context.Context, userID uuid.UUID, keepToken string) (LogoutAllResponse, error) {
	count, err := s.sessions.RevokeAllExcept(ctx, userID, keepToken, s.nowFn())
	if err != nil {
		return LogoutAllResponse{}, err
	}
	return LogoutAllResponse{RevokedCount: count}, nil
}

// ListSessions returns the user's session records, revoked ones included,
// for device-management views.
func (s *Service) ListSessions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]SessionItem, error) {
	records, err := s.sessions.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]SessionItem, 0, len(records))
	for _, record := range records {
		items = append(items, toSessionItem(record))
	}
	return items, nil
}

// ValidateAccessToken verifies a bearer token for the HTTP middleware.
// Stateless: session revocation does not cut short an already-issued token.
func (s *Service) ValidateAccessToken(ctx context.Context, token string) (ports.AccessClaims, error) {
	return s.tokens.Verify(token, s.nowFn())
}
