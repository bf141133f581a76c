package sessions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/marketloop/auth-service/internal/domain"
	"github.com/marketloop/auth-service/internal/ports"
)

// fakeSessionRepo is an in-memory session store keyed by token fingerprint.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]domain.Session{}}
}

func (f *fakeSessionRepo) Insert(_ context.Context, p ports.SessionCreateParams) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := domain.Session{
		SessionID: p.SessionID,
		UserID:    p.UserID,
		UserRole:  p.UserRole,
		ShopID:    p.ShopID,
		Device:    p.Device,
		IPAddress: p.IPAddress,
		TokenHash: p.TokenHash,
		IsActive:  true,
		CreatedAt: p.CreatedAt,
		ExpiresAt: p.ExpiresAt,
	}
	f.sessions[p.TokenHash] = s
	return s, nil
}

func (f *fakeSessionRepo) GetByTokenHash(_ context.Context, hash string) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[hash]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessionRepo) CountActive(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.sessions {
		if s.UserID == userID && s.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeSessionRepo) OldestActive(_ context.Context, userID uuid.UUID) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var oldest *domain.Session
	for _, s := range f.sessions {
		if s.UserID != userID || !s.IsActive {
			continue
		}
		s := s
		if oldest == nil || s.CreatedAt.Before(oldest.CreatedAt) {
			oldest = &s
		}
	}
	if oldest == nil {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return *oldest, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, hash string, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[hash]
	if !ok || !s.IsActive {
		return false, nil
	}
	s.IsActive = false
	f.sessions[hash] = s
	return true, nil
}

func (f *fakeSessionRepo) RevokeAllByUser(_ context.Context, userID uuid.UUID, _ time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for hash, s := range f.sessions {
		if s.UserID == userID && s.IsActive {
			s.IsActive = false
			f.sessions[hash] = s
			n++
		}
	}
	return n, nil
}

func (f *fakeSessionRepo) RevokeAllExcept(_ context.Context, userID uuid.UUID, keepHash string, _ time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for hash, s := range f.sessions {
		if s.UserID == userID && s.IsActive && hash != keepHash {
			s.IsActive = false
			f.sessions[hash] = s
			n++
		}
	}
	return n, nil
}

func (f *fakeSessionRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Session
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser() domain.User {
	shopID := uuid.New()
	return domain.User{
		UserID: uuid.New(),
		Email:  "owner@shop.example",
		Role:   domain.RoleAdmin,
		ShopID: &shopID,
		Status: domain.StatusActive,
	}
}

func TestCreateUnderCeiling(t *testing.T) {
	repo := newFakeSessionRepo()
	mgr := NewManager(repo, testLogger(), 5, time.Hour)
	user := testUser()
	now := time.Now().UTC()

	res, err := mgr.Create(context.Background(), user, "cli", "10.0.0.1", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Evicted != nil {
		t.Fatalf("evicted = %v, want nil", res.Evicted)
	}
	if res.RawToken == "" {
		t.Fatal("raw token is empty")
	}
	if res.Session.TokenHash == res.RawToken {
		t.Fatal("raw token stored verbatim")
	}
	if res.Session.TokenHash != Fingerprint(res.RawToken) {
		t.Fatal("stored hash does not match token fingerprint")
	}
}

func TestCeilingEvictsOldest(t *testing.T) {
	repo := newFakeSessionRepo()
	mgr := NewManager(repo, testLogger(), 3, time.Hour)
	user := testUser()
	base := time.Now().UTC()

	var first domain.Session
	for i := 0; i < 3; i++ {
		res, err := mgr.Create(context.Background(), user, "cli", "10.0.0.1", base.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if i == 0 {
			first = res.Session
		}
	}

	res, err := mgr.Create(context.Background(), user, "cli", "10.0.0.1", base.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("create over ceiling: %v", err)
	}
	if res.Evicted == nil {
		t.Fatal("expected an eviction at the ceiling")
	}
	if res.Evicted.SessionID != first.SessionID {
		t.Fatalf("evicted %v, want oldest %v", res.Evicted.SessionID, first.SessionID)
	}

	count, _ := repo.CountActive(context.Background(), user.UserID)
	if count != 3 {
		t.Fatalf("active count = %d, want 3", count)
	}
}

func TestConcurrentLoginsRespectCeiling(t *testing.T) {
	repo := newFakeSessionRepo()
	mgr := NewManager(repo, testLogger(), 5, time.Hour)
	user := testUser()
	now := time.Now().UTC()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := mgr.Create(context.Background(), user, "cli", "10.0.0.1", now.Add(time.Duration(i)*time.Millisecond)); err != nil {
				t.Errorf("create: %v", err)
			}
		}(i)
	}
	wg.Wait()

	count, _ := repo.CountActive(context.Background(), user.UserID)
	if count != 5 {
		t.Fatalf("active count = %d, want 5", count)
	}
}

func TestRevokeTwice(t *testing.T) {
	repo := newFakeSessionRepo()
	mgr := NewManager(repo, testLogger(), 5, time.Hour)
	now := time.Now().UTC()

	res, err := mgr.Create(context.Background(), testUser(), "cli", "10.0.0.1", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	revoked, err := mgr.Revoke(context.Background(), res.RawToken, now)
	if err != nil || !revoked {
		t.Fatalf("first revoke = (%v, %v), want (true, nil)", revoked, err)
	}
	revoked, err = mgr.Revoke(context.Background(), res.RawToken, now)
	if err != nil || revoked {
		t.Fatalf("second revoke = (%v, %v), want (false, nil)", revoked, err)
	}
}

func TestLookupActive(t *testing.T) {
	repo := newFakeSessionRepo()
	mgr := NewManager(repo, testLogger(), 5, time.Hour)
	now := time.Now().UTC()

	res, err := mgr.Create(context.Background(), testUser(), "cli", "10.0.0.1", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := mgr.LookupActive(context.Background(), res.RawToken, now); err != nil {
		t.Fatalf("lookup live session: %v", err)
	}

	if _, err := mgr.LookupActive(context.Background(), res.RawToken, now.Add(2*time.Hour)); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}

	if _, err := mgr.LookupActive(context.Background(), "deadbeef", now); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}

	if _, err := mgr.Revoke(context.Background(), res.RawToken, now); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := mgr.LookupActive(context.Background(), res.RawToken, now); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("err after revoke = %v, want ErrSessionNotFound", err)
	}
}

func TestRevokeAllExceptKeepsCurrent(t *testing.T) {
	repo := newFakeSessionRepo()
	mgr := NewManager(repo, testLogger(), 5, time.Hour)
	user := testUser()
	now := time.Now().UTC()

	var keep string
	for i := 0; i < 3; i++ {
		res, err := mgr.Create(context.Background(), user, "cli", "10.0.0.1", now.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		keep = res.RawToken
	}

	n, err := mgr.RevokeAllExcept(context.Background(), user.UserID, keep, now)
	if err != nil {
		t.Fatalf("revoke all except: %v", err)
	}
	if n != 2 {
		t.Fatalf("revoked = %d, want 2", n)
	}
	if _, err := mgr.LookupActive(context.Background(), keep, now); err != nil {
		t.Fatalf("kept session should stay live: %v", err)
	}
}
