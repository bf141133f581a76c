// Package sessions owns refresh-token generation and the per-user session
// ceiling. All writes for one user are serialized through a sharded lock so
// a burst of concurrent logins can never leave more than the configured
// number of active sessions behind.
package sessions

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marketloop/auth-service/internal/domain"
	"github.com/marketloop/auth-service/internal/ports"
)

const (
	rawTokenBytes = 32
	lockShards    = 64
)

// Manager coordinates session lifecycle on top of the session store.
type Manager struct {
	repo    ports.SessionRepository
	logger  *slog.Logger
	ceiling int
	ttl     time.Duration

	locks [lockShards]sync.Mutex
}

// NewManager builds a session manager. Ceiling and TTL fall back to the
// service defaults when unset.
func NewManager(repo ports.SessionRepository, logger *slog.Logger, ceiling int, ttl time.Duration) *Manager {
	if ceiling <= 0 {
		ceiling = 5
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		repo:    repo,
		logger:  logger,
		ceiling: ceiling,
		ttl:     ttl,
	}
}

// CreateResult reports a newly established session. RawToken is the only
// copy of the refresh token that will ever exist; the store keeps its
// fingerprint.
type CreateResult struct {
	Session  domain.Session
	RawToken string
	Evicted  *domain.Session
}

// Create inserts a session for the user, evicting the oldest active one
// first when the ceiling is already reached. Count, eviction and insert run
// under the user's lock so concurrent logins cannot overshoot the ceiling.
func (m *Manager) Create(ctx context.Context, user domain.User, device, ip string, now time.Time) (CreateResult, error) {
	raw, hash, err := NewToken()
	if err != nil {
		return CreateResult{}, fmt.Errorf("generate refresh token: %w", err)
	}

	lock := m.userLock(user.UserID)
	lock.Lock()
	defer lock.Unlock()

	var evicted *domain.Session
	count, err := m.repo.CountActive(ctx, user.UserID)
	if err != nil {
		return CreateResult{}, err
	}
	if count >= int64(m.ceiling) {
		oldest, err := m.repo.OldestActive(ctx, user.UserID)
		if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return CreateResult{}, err
		}
		if err == nil {
			revoked, err := m.repo.Revoke(ctx, oldest.TokenHash, now)
			if err != nil {
				return CreateResult{}, err
			}
			if revoked {
				evicted = &oldest
				m.logger.Info("session evicted at ceiling",
					slog.String("user_id", user.UserID.String()),
					slog.String("session_id", oldest.SessionID.String()),
				)
			}
		}
	}

	created, err := m.repo.Insert(ctx, ports.SessionCreateParams{
		SessionID: uuid.New(),
		UserID:    user.UserID,
		UserRole:  user.Role,
		ShopID:    user.ShopID,
		Device:    device,
		IPAddress: ip,
		TokenHash: hash,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	})
	if err != nil {
		return CreateResult{}, err
	}

	return CreateResult{Session: created, RawToken: raw, Evicted: evicted}, nil
}

// LookupActive resolves a raw refresh token to its live session. Revoked or
// unknown tokens surface as ErrSessionNotFound, expired ones as
// ErrSessionExpired; callers collapse both into one client-facing error.
func (m *Manager) LookupActive(ctx context.Context, rawToken string, now time.Time) (domain.Session, error) {
	session, err := m.repo.GetByTokenHash(ctx, Fingerprint(rawToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, err
	}
	if !session.IsActive {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if session.Expired(now) {
		// Lazy cleanup: flip the row inactive so it stops counting against
		// the ceiling. Best effort, the lookup result does not depend on it.
		if _, err := m.repo.Revoke(ctx, session.TokenHash, now); err != nil {
			m.logger.Warn("expired session cleanup failed",
				slog.String("session_id", session.SessionID.String()),
				slog.String("error", err.Error()),
			)
		}
		return domain.Session{}, domain.ErrSessionExpired
	}
	return session, nil
}

// Revoke flips the session for the raw token inactive. The bool reports
// whether a live session was actually revoked; a second call for the same
// token returns false.
func (m *Manager) Revoke(ctx context.Context, rawToken string, now time.Time) (bool, error) {
	return m.repo.Revoke(ctx, Fingerprint(rawToken), now)
}

// RevokeAll ends every active session the user has and returns how many
// were revoked.
func (m *Manager) RevokeAll(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	return m.repo.RevokeAllByUser(ctx, userID, now)
}

// RevokeAllExcept ends every active session except the one holding the given
// raw token. Used by password change so the acting session survives.
func (m *Manager) RevokeAllExcept(ctx context.Context, userID uuid.UUID, keepRawToken string, now time.Time) (int64, error) {
	return m.repo.RevokeAllExcept(ctx, userID, Fingerprint(keepRawToken), now)
}

// List returns the user's sessions, newest first.
func (m *Manager) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Session, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return m.repo.ListByUser(ctx, userID, limit, offset)
}

func (m *Manager) userLock(userID uuid.UUID) *sync.Mutex {
	h := fnv.New32a()
	h.Write(userID[:])
	return &m.locks[h.Sum32()%lockShards]
}

// NewToken generates a fresh opaque refresh token and its stored
// fingerprint.
func NewToken() (raw, fingerprint string, err error) {
	buf := make([]byte, rawTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, Fingerprint(raw), nil
}

// Fingerprint returns the SHA-256 hex digest stored in place of a raw token.
func Fingerprint(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
