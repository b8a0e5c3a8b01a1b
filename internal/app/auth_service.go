package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"quiz-assessment-service/internal/auth"
	"quiz-assessment-service/internal/domain"
)

// AuthService owns the session lifecycle: signup and login create a session,
// Authenticate resolves one from a bearer token, Logout ends it.
type AuthService struct {
	users       UserRepository
	revocations RevocationStore
	tokens      *auth.TokenIssuer
	now         func() time.Time
}

func NewAuthService(users UserRepository, revocations RevocationStore, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{users: users, revocations: revocations, tokens: tokens, now: time.Now}
}

// Signup registers a USER account and opens a session for it.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (auth.Session, error) {
	user, err := s.register(ctx, username, email, password, domain.RoleUser)
	if err != nil {
		return auth.Session{}, err
	}
	return s.tokens.Issue(user)
}

// Login verifies the password and opens a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (auth.Session, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrUserNotFound) {
		return auth.Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return auth.Session{}, err
	}
	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return auth.Session{}, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return auth.Session{}, domain.ErrInvalidCredentials
	}
	return s.tokens.Issue(user)
}

// Authenticate resolves a bearer token into a live session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (auth.Session, error) {
	if token == "" {
		return auth.Session{}, domain.ErrUnauthorized
	}
	session, err := s.tokens.Parse(token)
	if err != nil {
		return auth.Session{}, err
	}
	revoked, err := s.revocations.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return auth.Session{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return auth.Session{}, domain.ErrUnauthorized
	}
	return session, nil
}

// Logout revokes the session's token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, session auth.Session) error {
	if session.TokenID == "" {
		return domain.ErrUnauthorized
	}
	if !session.ExpiresAt.After(s.now()) {
		return nil
	}
	return s.revocations.Revoke(ctx, session.TokenID, session.ExpiresAt)
}

// EnsureUser creates the account unless the username is already taken.
func (s *AuthService) EnsureUser(ctx context.Context, username, email, password string, role domain.Role) error {
	_, err := s.register(ctx, username, email, password, role)
	if errors.Is(err, domain.ErrUsernameTaken) {
		return nil
	}
	return err
}

func (s *AuthService) register(ctx context.Context, username, email, password string, role domain.Role) (domain.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.users.Create(ctx, domain.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return domain.User{}, err
	}
	log.Printf("registered %s user %s", user.Role, user.Username)
	return user, nil
}
