package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/pratyushashukla/IP-BE/models"
)

// TokenTTL is the fixed validity window of an issued credential. The
// 30-minute inactivity policy is enforced server-side per request; this
// window only bounds how long a credential can be replayed at all.
const TokenTTL = 3 * time.Hour

// TokenService signs and verifies session credentials. It is a pure
// codec: no calls leave the process, the only state is the signing key.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

type TokenOption func(*TokenService)

// WithTokenTTL overrides the validity window, used by tests.
func WithTokenTTL(ttl time.Duration) TokenOption {
	return func(s *TokenService) { s.ttl = ttl }
}

// WithTokenClock overrides the clock, used by tests.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(key []byte, opts ...TokenOption) (*TokenService, error) {
	if len(key) == 0 {
		return nil, errors.New("token service requires a signing key")
	}

	s := &TokenService{key: key, ttl: TokenTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.ttl <= 0 {
		return nil, errors.New("invalid token TTL")
	}
	return s, nil
}

// Issue mints a signed credential for the user with the configured
// validity window from now.
func (s *TokenService) Issue(userID models.UserID, email string) (string, error) {
	now := s.now()
	claims := models.Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		slog.Error("failed to sign auth token", "error", err, "user_id", userID)
		return "", fmt.Errorf("error while creating the token: %w", err)
	}
	return token, nil
}

// Verify parses and validates a credential. It reports
// ErrCredentialExpired for a past expiry and ErrCredentialMalformed for
// anything else wrong with the token. The exp claim is re-checked
// against the clock after library validation.
func (s *TokenService) Verify(tokenStr string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrCredentialExpired
		}
		return nil, ErrCredentialMalformed
	}
	if !token.Valid {
		return nil, ErrCredentialMalformed
	}

	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(s.now()) {
		return nil, ErrCredentialExpired
	}
	return claims, nil
}
