package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/portfolio-api/internal/config"
)

// Claims holds the session token payload. Subject carries the account id.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 session tokens.
type Provider struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if len(cfg.SessionSecret) < 32 {
		return nil, errors.New("SESSION_SECRET must be at least 32 bytes")
	}
	if cfg.SessionExpiry <= 0 {
		return nil, fmt.Errorf("invalid session expiry %s", cfg.SessionExpiry)
	}
	return &Provider{secret: []byte(cfg.SessionSecret), expiry: cfg.SessionExpiry, now: time.Now}, nil
}

// Expiry is the lifetime of tokens minted by Sign.
func (p *Provider) Expiry() time.Duration { return p.expiry }

func (p *Provider) Sign(subject, role, email, name string) (string, error) {
	now := p.now()
	claims := Claims{
		Role:  role,
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
