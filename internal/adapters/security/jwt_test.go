package security

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/marketloop/auth-service/internal/domain"
	"github.com/marketloop/auth-service/internal/ports"
)

func testMintParams() ports.MintParams {
	shopID := uuid.New()
	return ports.MintParams{
		UserID:    uuid.New(),
		Email:     "owner@shop.example",
		Role:      domain.RoleAdmin,
		ShopID:    &shopID,
		SessionID: uuid.New(),
	}
}

func TestMintAndVerifyRoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("test-secret", "auth-service", 15*time.Minute)
	now := time.Now().UTC()
	params := testMintParams()

	token, expiresAt, err := issuer.Mint(params, now)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if want := now.Add(15 * time.Minute); !expiresAt.Equal(want) {
		t.Fatalf("expiresAt = %v, want %v", expiresAt, want)
	}

	claims, err := issuer.Verify(token, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != params.UserID {
		t.Errorf("user id = %v, want %v", claims.UserID, params.UserID)
	}
	if claims.Email != params.Email {
		t.Errorf("email = %q, want %q", claims.Email, params.Email)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("role = %q, want %q", claims.Role, domain.RoleAdmin)
	}
	if claims.ShopID == nil || *claims.ShopID != *params.ShopID {
		t.Errorf("shop id = %v, want %v", claims.ShopID, params.ShopID)
	}
	if claims.SessionID != params.SessionID {
		t.Errorf("session id = %v, want %v", claims.SessionID, params.SessionID)
	}
}

func TestMintWithoutSecret(t *testing.T) {
	issuer := NewJWTIssuer("", "auth-service", 15*time.Minute)

	_, _, err := issuer.Mint(testMintParams(), time.Now().UTC())
	if !errors.Is(err, domain.ErrSigningUnavailable) {
		t.Fatalf("err = %v, want ErrSigningUnavailable", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := NewJWTIssuer("test-secret", "auth-service", 15*time.Minute)
	now := time.Now().UTC()

	token, _, err := issuer.Mint(testMintParams(), now)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	_, err = issuer.Verify(token, now.Add(16*time.Minute))
	if !errors.Is(err, domain.ErrAccessTokenExpired) {
		t.Fatalf("err = %v, want ErrAccessTokenExpired", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	issuer := NewJWTIssuer("test-secret", "auth-service", 15*time.Minute)
	now := time.Now().UTC()

	token, _, err := issuer.Mint(testMintParams(), now)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := NewJWTIssuer("other-secret", "auth-service", 15*time.Minute)
	_, err = other.Verify(token, now)
	if !errors.Is(err, domain.ErrAccessTokenInvalid) {
		t.Fatalf("err = %v, want ErrAccessTokenInvalid", err)
	}

	_, err = issuer.Verify(token+"x", now)
	if !errors.Is(err, domain.ErrAccessTokenInvalid) {
		t.Fatalf("err = %v, want ErrAccessTokenInvalid", err)
	}
}

func TestVerifyOmittedShop(t *testing.T) {
	issuer := NewJWTIssuer("test-secret", "auth-service", 15*time.Minute)
	now := time.Now().UTC()

	params := testMintParams()
	params.ShopID = nil
	params.Role = domain.RoleSuperAdmin

	token, _, err := issuer.Mint(params, now)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := issuer.Verify(token, now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ShopID != nil {
		t.Fatalf("shop id = %v, want nil", claims.ShopID)
	}
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("Secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := hasher.Compare(hash, "Secret123"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := hasher.Compare(hash, "Wrong123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}
