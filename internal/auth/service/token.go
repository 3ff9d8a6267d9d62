package service

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mcitys/mcitys-api/internal/auth/cache"
	"github.com/mcitys/mcitys-api/internal/auth/domain"
)

// DefaultTokenTTL is the access token lifetime applied when none is
// configured.
const DefaultTokenTTL = time.Hour

type tokenClaims struct {
	Username  string `json:"user"`
	Privilege string `json:"privilege"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies RS256 access tokens. Revocation is
// tracked in Redis keyed by the token's jti, so a revoked token stays
// rejected until its natural expiry.
type TokenService struct {
	PrivateKey  *rsa.PrivateKey
	PublicKey   *rsa.PublicKey
	Revocations *cache.RevocationList
	TTL         time.Duration
}

func (s *TokenService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultTokenTTL
	}
	return s.TTL
}

// CreateToken signs a fresh access token for the given identity.
func (s *TokenService) CreateToken(ctx context.Context, username string, privilege domain.Privilege) (string, error) {
	if s.PrivateKey == nil {
		return "", ErrKeyNotConfigured
	}
	if username == "" || privilege == "" {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := tokenClaims{
		Username:  username,
		Privilege: string(privilege),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl())),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates the signature and expiry of a token and checks it
// against the revocation list. It returns the embedded claims on success.
func (s *TokenService) VerifyToken(ctx context.Context, tokenString string) (*domain.TokenClaims, error) {
	if s.PublicKey == nil {
		return nil, ErrKeyNotConfigured
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.PublicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.ID == "" || claims.Username == "" {
		return nil, ErrInvalidToken
	}

	revoked, err := s.Revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	out := &domain.TokenClaims{
		Username:  claims.Username,
		Privilege: domain.Privilege(claims.Privilege),
		ID:        claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// RevokeToken blacklists a token for the remainder of its lifetime. The
// decode is best effort: malformed or already expired tokens are ignored
// so logout never fails on garbage input. Only a revocation backend write
// failure is reported.
func (s *TokenService) RevokeToken(ctx context.Context, tokenString string) error {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	if err := s.Revocations.Revoke(ctx, claims.ID, remaining); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
