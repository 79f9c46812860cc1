package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/todo-be/internal/apperr"
)

// DefaultTokenLifetime applies when TokenConfig.Lifetime is zero.
const DefaultTokenLifetime = 30 * time.Minute

// TokenConfig is the process-wide signing configuration.
type TokenConfig struct {
	SecretKey string
	Algorithm string
	Lifetime  time.Duration
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces the wall clock used for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// TokenService issues and validates signed, time-limited bearer tokens
// whose subject is an account email. It keeps no state besides its config.
type TokenService struct {
	key      []byte
	method   jwt.SigningMethod
	lifetime time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

// NewTokenService creates a TokenService. Only HMAC algorithms are accepted.
func NewTokenService(cfg TokenConfig, opts ...TokenOption) (*TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("token secret key is empty")
	}
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", cfg.Algorithm)
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = DefaultTokenLifetime
	}

	s := &TokenService{
		key:      []byte(cfg.SecretKey),
		method:   method,
		lifetime: cfg.Lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	return s, nil
}

// Lifetime returns the validity window of issued tokens.
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}

// Issue creates a token for subject that expires after the configured lifetime.
func (s *TokenService) Issue(subject string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
	}

	token := jwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, algorithm and expiry of tokenStr and returns
// its subject. Every failure is apperr.ErrInvalidCredentials; a token is
// expired from the instant now reaches its exp claim.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := s.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil || !token.Valid {
		return "", apperr.ErrInvalidCredentials
	}
	if claims.Subject == "" {
		return "", apperr.ErrInvalidCredentials
	}
	return claims.Subject, nil
}
