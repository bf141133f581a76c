package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/marketloop/auth-service/internal/domain"
	"github.com/marketloop/auth-service/internal/ports"
)

// JWTIssuer implements HS256 access-token signing/verification.
// The secret is held at adapter level so the application layer stays
// crypto-library agnostic.
type JWTIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewJWTIssuer builds an issuer from the configured shared secret. An empty
// secret is accepted at construction; Mint fails per-call with
// domain.ErrSigningUnavailable so verification-only deployments can still
// boot.
func NewJWTIssuer(secret, issuer string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &JWTIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

type accessJWTClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ShopID    string `json:"shop_id,omitempty"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

func (s *JWTIssuer) Mint(params ports.MintParams, now time.Time) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, domain.ErrSigningUnavailable
	}

	expiresAt := now.Add(s.ttl)
	claims := accessJWTClaims{
		UserID:    params.UserID.String(),
		Email:     params.Email,
		Role:      string(params.Role),
		SessionID: params.SessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   params.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if params.ShopID != nil {
		claims.ShopID = params.ShopID.String()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return token, expiresAt, nil
}

func (s *JWTIssuer) Verify(raw string, now time.Time) (ports.AccessClaims, error) {
	if len(s.secret) == 0 {
		return ports.AccessClaims{}, domain.ErrSigningUnavailable
	}

	parsed, err := jwt.ParseWithClaims(raw, &accessJWTClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.AccessClaims{}, domain.ErrAccessTokenExpired
		}
		return ports.AccessClaims{}, domain.ErrAccessTokenInvalid
	}

	claims, ok := parsed.Claims.(*accessJWTClaims)
	if !ok || !parsed.Valid {
		return ports.AccessClaims{}, domain.ErrAccessTokenInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ports.AccessClaims{}, domain.ErrAccessTokenInvalid
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return ports.AccessClaims{}, domain.ErrAccessTokenInvalid
	}
	var shopID *uuid.UUID
	if claims.ShopID != "" {
		id, err := uuid.Parse(claims.ShopID)
		if err != nil {
			return ports.AccessClaims{}, domain.ErrAccessTokenInvalid
		}
		shopID = &id
	}

	return ports.AccessClaims{
		UserID:    userID,
		Email:     claims.Email,
		Role:      domain.Role(claims.Role),
		ShopID:    shopID,
		SessionID: sessionID,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
