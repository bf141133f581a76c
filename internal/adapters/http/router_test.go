package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketloop/auth-service/internal/application"
	"github.com/marketloop/auth-service/internal/domain"
	"github.com/marketloop/auth-service/internal/ports"
	"github.com/marketloop/auth-service/internal/sessions"
)

type stubUsers struct {
	byEmail map[string]domain.User
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) GetByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	for _, u := range s.byEmail {
		if u.UserID == id {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *stubUsers) UpdateLastLogin(context.Context, uuid.UUID, time.Time) error { return nil }
func (s *stubUsers) SetVerificationCode(context.Context, uuid.UUID, string, time.Time, time.Time) error {
	return nil
}
func (s *stubUsers) MarkVerified(context.Context, uuid.UUID, time.Time) error { return nil }
func (s *stubUsers) SetResetToken(context.Context, uuid.UUID, string, time.Time, time.Time) error {
	return nil
}
func (s *stubUsers) GetByResetToken(context.Context, string, time.Time) (domain.User, error) {
	return domain.User{}, domain.ErrNotFound
}
func (s *stubUsers) UpdatePassword(context.Context, uuid.UUID, string, time.Time) error { return nil }

type stubSessions struct{}

func (stubSessions) Insert(_ context.Context, p ports.SessionCreateParams) (domain.Session, error) {
	return domain.Session{SessionID: p.SessionID, UserID: p.UserID, TokenHash: p.TokenHash, IsActive: true}, nil
}
func (stubSessions) GetByTokenHash(context.Context, string) (domain.Session, error) {
	return domain.Session{}, domain.ErrNotFound
}
func (stubSessions) CountActive(context.Context, uuid.UUID) (int64, error) { return 0, nil }
func (stubSessions) OldestActive(context.Context, uuid.UUID) (domain.Session, error) {
	return domain.Session{}, domain.ErrSessionNotFound
}
func (stubSessions) Revoke(context.Context, string, time.Time) (bool, error) { return false, nil }
func (stubSessions) RevokeAllByUser(context.Context, uuid.UUID, time.Time) (int64, error) {
	return 0, nil
}
func (stubSessions) RevokeAllExcept(context.Context, uuid.UUID, string, time.Time) (int64, error) {
	return 0, nil
}
func (stubSessions) ListByUser(context.Context, uuid.UUID, int, int) ([]domain.Session, error) {
	return nil, nil
}

type stubAudit struct{}

func (stubAudit) Enqueue(context.Context, ports.AuditEvent) error { return nil }
func (stubAudit) ClaimUnpublished(context.Context, int, string, time.Time) ([]ports.AuditRecord, error) {
	return nil, nil
}
func (stubAudit) MarkPublished(context.Context, uuid.UUID, string, time.Time) error { return nil }
func (stubAudit) MarkFailed(context.Context, uuid.UUID, string, string, time.Time) error {
	return nil
}
func (stubAudit) MarkDeadLettered(context.Context, uuid.UUID, string, string, time.Time) error {
	return nil
}

type stubNotifier struct{}

func (stubNotifier) SendVerificationCode(context.Context, string, string) error { return nil }
func (stubNotifier) SendPasswordReset(context.Context, string, string) error    { return nil }
func (stubNotifier) SendWelcome(context.Context, string) error                  { return nil }

type stubHasher struct{}

func (stubHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (stubHasher) Compare(hash, plain string) error {
	if hash != "h:"+plain {
		return domain.ErrInvalidCredentials
	}
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	slog.SetDefault(logger)

	users := &stubUsers{byEmail: map[string]domain.User{
		"real@shop.example": {
			UserID:       uuid.New(),
			Email:        "real@shop.example",
			PasswordHash: "h:Correct1pass",
			Role:         domain.RoleAdmin,
			Status:       domain.StatusActive,
		},
	}}

	svc := application.NewService(application.Dependencies{
		Logger:   logger,
		Users:    users,
		Sessions: sessions.NewManager(stubSessions{}, logger, 5, time.Hour),
		Tokens:   noopIssuer{},
		Hasher:   stubHasher{},
		Audit:    stubAudit{},
		Notifier: stubNotifier{},
	})
	return NewRouter(NewHandler(svc, nil))
}

type noopIssuer struct{}

func (noopIssuer) Mint(_ ports.MintParams, now time.Time) (string, time.Time, error) {
	return "token", now.Add(15 * time.Minute), nil
}
func (noopIssuer) Verify(string, time.Time) (ports.AccessClaims, error) {
	return ports.AccessClaims{}, domain.ErrAccessTokenInvalid
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestForgotPasswordPayloadsAreByteIdentical(t *testing.T) {
	router := newTestRouter(t)

	real := postJSON(t, router, "/auth/v1/password/forgot", `{"email":"real@shop.example"}`)
	missing := postJSON(t, router, "/auth/v1/password/forgot", `{"email":"nonexistent@shop.example"}`)

	require.Equal(t, http.StatusOK, real.Code)
	require.Equal(t, http.StatusOK, missing.Code)
	assert.Equal(t, real.Body.Bytes(), missing.Body.Bytes())
}

func TestResendVerificationPayloadsAreByteIdentical(t *testing.T) {
	router := newTestRouter(t)

	real := postJSON(t, router, "/auth/v1/email/resend", `{"email":"real@shop.example"}`)
	missing := postJSON(t, router, "/auth/v1/email/resend", `{"email":"nonexistent@shop.example"}`)

	require.Equal(t, http.StatusOK, real.Code)
	require.Equal(t, http.StatusOK, missing.Code)
	assert.Equal(t, real.Body.Bytes(), missing.Body.Bytes())
}

func TestLoginErrorBodiesUniform(t *testing.T) {
	router := newTestRouter(t)

	unknown := postJSON(t, router, "/auth/v1/login", `{"email":"nobody@shop.example","password":"Wrong1pass"}`)
	wrongPass := postJSON(t, router, "/auth/v1/login", `{"email":"real@shop.example","password":"Wrong1pass"}`)

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, unknown.Body.Bytes(), wrongPass.Body.Bytes())
	assert.Contains(t, unknown.Body.String(), "INVALID_CREDENTIALS")
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/auth/v1/password/change", `{"current_password":"a","new_password":"b"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/v1/sessions", nil)
	out := httptest.NewRecorder()
	router.ServeHTTP(out, req)
	assert.Equal(t, http.StatusUnauthorized, out.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
