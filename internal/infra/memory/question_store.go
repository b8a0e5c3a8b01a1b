package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"quiz-assessment-service/internal/domain"
	"quiz-assessment-service/internal/quiz"
)

// QuestionStore is an in-memory implementation of app.QuestionRepository.
type QuestionStore struct {
	mu        sync.RWMutex
	clock     func() time.Time
	order     []string
	questions map[string]domain.Question
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{
		clock:     time.Now,
		questions: make(map[string]domain.Question),
	}
}

func (s *QuestionStore) Create(_ context.Context, v quiz.ValidatedQuestion) (domain.Question, error) {
	now := s.clock()
	q := domain.Question{
		ID:        uuid.NewString(),
		Text:      v.Text,
		Options:   newOptions(v.Options),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
	s.order = append(s.order, q.ID)
	return cloneQuestion(q), nil
}

func (s *QuestionStore) Replace(_ context.Context, id string, v quiz.ValidatedQuestion) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	existing.Text = v.Text
	existing.Options = newOptions(v.Options)
	existing.UpdatedAt = s.clock()
	s.questions[id] = existing
	return cloneQuestion(existing), nil
}

func (s *QuestionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	for i, qid := range s.order {
		if qid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *QuestionStore) Get(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return cloneQuestion(q), nil
}

// List returns questions in creation order.
func (s *QuestionStore) List(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneQuestion(s.questions[id]))
	}
	return out, nil
}

func newOptions(in []quiz.CandidateOption) []domain.Option {
	out := make([]domain.Option, 0, len(in))
	for _, opt := range in {
		out = append(out, domain.Option{
			ID:        uuid.NewString(),
			Text:      opt.Text,
			IsCorrect: opt.IsCorrect,
		})
	}
	return out
}

func cloneQuestion(q domain.Question) domain.Question {
	q.Options = append([]domain.Option(nil), q.Options...)
	return q
}
