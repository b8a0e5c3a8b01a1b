package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"quiz-assessment-service/internal/domain"
)

// Claims is the JWT payload of a session token.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	return NewTokenIssuerWithClock(secret, issuer, ttl, time.Now)
}

// NewTokenIssuerWithClock is used by tests that need fixed timestamps.
func NewTokenIssuerWithClock(secret, issuer string, ttl time.Duration, now func() time.Time) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: now}
}

// Issue creates a new session for the user.
func (t *TokenIssuer) Issue(user domain.User) (Session, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := &Claims{
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{
		TokenID:   claims.ID,
		Token:     signed,
		ExpiresAt: expires,
		Identity: Identity{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}

// Parse verifies a token and rebuilds its session. Any failure is ErrUnauthorized.
func (t *TokenIssuer) Parse(raw string) (Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return Session{}, errors.Join(domain.ErrUnauthorized, err)
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return Session{}, errors.Join(domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return Session{}, domain.ErrUnauthorized
	}
	return Session{
		TokenID:   claims.ID,
		Token:     raw,
		ExpiresAt: claims.ExpiresAt.Time,
		Identity: Identity{
			UserID:   claims.Subject,
			Username: claims.Username,
			Role:     role,
		},
	}, nil
}
