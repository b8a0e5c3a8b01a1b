package memory

import (
	"context"
	"sync"

	"quiz-assessment-service/internal/domain"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository.
// Finalization is checked and applied under one lock.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]domain.QuizAttempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: make(map[string]domain.QuizAttempt)}
}

func (s *AttemptStore) Create(_ context.Context, attempt domain.QuizAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attempt.ID] = attempt
	return nil
}

func (s *AttemptStore) Get(_ context.Context, id string) (domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[id]
	if !ok {
		return domain.QuizAttempt{}, domain.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *AttemptStore) Finalize(_ context.Context, id string, result domain.QuizResult) (domain.QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[id]
	if !ok {
		return domain.QuizAttempt{}, domain.ErrAttemptNotFound
	}
	if attempt.Graded() {
		return domain.QuizAttempt{}, domain.ErrAttemptAlreadyGraded
	}
	attempt = attempt.Finalize(result)
	s.attempts[id] = attempt
	return attempt, nil
}

func (s *AttemptStore) ListGraded(_ context.Context, userID string) ([]domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.QuizAttempt
	for _, attempt := range s.attempts {
		if attempt.UserID == userID && attempt.Graded() {
			out = append(out, attempt)
		}
	}
	return out, nil
}
