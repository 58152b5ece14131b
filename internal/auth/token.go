package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenVerifier abstracts the platform authentication service: it turns a
// bearer token into the platform user id it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (userID string, err error)
}

// TokenService signs and verifies platform access tokens using HS256. The
// signing secret is injected at construction; nothing here reads the
// environment.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService builds a TokenService for the given secret and issuer.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("auth secret is required")
	}
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return nil, errors.New("token issuer is required")
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// WithClock overrides the time source, for tests.
func (s *TokenService) WithClock(fn func() time.Time) *TokenService {
	if fn != nil {
		s.now = fn
	}
	return s
}

// Mint signs a token for the given platform user id. Roles are deliberately
// absent from the claims: authorization always consults the profile row, so a
// role change takes effect without waiting out token expiry.
func (s *TokenService) Mint(userID string, ttl time.Duration) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("userID is required")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be greater than zero")
	}

	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and required claims and returns the
// subject. Any failure collapses to ErrInvalidToken: callers never learn
// which check rejected the token.
func (s *TokenService) Verify(_ context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if err := s.validateClaims(claims); err != nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *TokenService) validateClaims(claims *jwt.RegisteredClaims) error {
	if claims.Issuer != s.issuer {
		return fmt.Errorf("unexpected issuer: %s", claims.Issuer)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return errors.New("subject missing")
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return errors.New("timestamps missing")
	}
	now := s.now().UTC()
	// Allow a small clock skew of 5 seconds when validating issued-at.
	if claims.IssuedAt.Time.After(now.Add(5 * time.Second)) {
		return errors.New("token issued in the future")
	}
	if claims.ExpiresAt.Time.Before(claims.IssuedAt.Time) {
		return errors.New("token expiry precedes issued-at")
	}
	return nil
}
