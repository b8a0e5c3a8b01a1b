package auth

import (
	"errors"
	"testing"
	"time"

	"quiz-assessment-service/internal/domain"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuerWithClock("secret", "quiz-test", time.Hour, func() time.Time { return now })

	session, err := issuer.Issue(domain.User{ID: "u1", Username: "alice", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if session.TokenID == "" || session.Token == "" {
		t.Fatalf("expected token and token id, got %+v", session)
	}

	parsed, err := issuer.Parse(session.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.UserID != "u1" || parsed.Username != "alice" || parsed.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", parsed.Identity)
	}
	if parsed.TokenID != session.TokenID {
		t.Fatalf("expected token id %s, got %s", session.TokenID, parsed.TokenID)
	}
	if !parsed.Can(domain.ActionManageQuestions) {
		t.Fatalf("expected admin session to manage questions")
	}
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := now
	issuer := NewTokenIssuerWithClock("secret", "quiz-test", time.Minute, func() time.Time { return clock })
	session, err := issuer.Issue(domain.User{ID: "u1", Username: "bob", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewTokenIssuerWithClock("other-secret", "quiz-test", time.Minute, func() time.Time { return now })
	if _, err := other.Parse(session.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for wrong secret, got %v", err)
	}

	clock = now.Add(2 * time.Minute)
	if _, err := issuer.Parse(session.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}

	if _, err := issuer.Parse("not-a-token"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for garbage, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("user123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ok, err := CheckPassword(hash, "user123")
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}
	ok, err = CheckPassword(hash, "wrong")
	if err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}
}
