package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"quiz-assessment-service/internal/auth"
	"quiz-assessment-service/internal/domain"
	"quiz-assessment-service/internal/quiz"
)

func session(userID string, role domain.Role) auth.Session {
	return auth.Session{
		TokenID:   "tok-" + userID,
		ExpiresAt: time.Now().Add(time.Hour),
		Identity:  auth.Identity{UserID: userID, Username: userID, Role: role},
	}
}

var (
	adminSession = session("admin-1", domain.RoleAdmin)
	userSession  = session("user-1", domain.RoleUser)
)

type questionCreator interface {
	Create(ctx context.Context, q quiz.ValidatedQuestion) (domain.Question, error)
}

func mustCreate(t *testing.T, store questionCreator, text string, options ...quiz.CandidateOption) domain.Question {
	t.Helper()
	validated, err := quiz.Validate(quiz.Candidate{Text: text, Options: options})
	if err != nil {
		t.Fatalf("validate %q: %v", text, err)
	}
	q, err := store.Create(context.Background(), validated)
	if err != nil {
		t.Fatalf("create %q: %v", text, err)
	}
	return q
}

func correctOf(q domain.Question) *string {
	id := q.CorrectOptionID()
	return &id
}

func wrongOf(q domain.Question) *string {
	for _, o := range q.Options {
		if !o.IsCorrect {
			id := o.ID
			return &id
		}
	}
	return nil
}

type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}
