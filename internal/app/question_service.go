package app

import (
	"context"
	"log"

	"quiz-assessment-service/internal/auth"
	"quiz-assessment-service/internal/domain"
	"quiz-assessment-service/internal/quiz"
)

// QuestionService contains the question authoring use cases. Every write runs
// the full validator; an edit replaces the whole option set.
type QuestionService struct {
	questions QuestionRepository
}

func NewQuestionService(questions QuestionRepository) *QuestionService {
	return &QuestionService{questions: questions}
}

func (s *QuestionService) List(ctx context.Context, session auth.Session) ([]domain.Question, error) {
	if !session.Can(domain.ActionManageQuestions) {
		return nil, domain.ErrForbidden
	}
	return s.questions.List(ctx)
}

func (s *QuestionService) Get(ctx context.Context, session auth.Session, id string) (domain.Question, error) {
	if !session.Can(domain.ActionManageQuestions) {
		return domain.Question{}, domain.ErrForbidden
	}
	return s.questions.Get(ctx, id)
}

// Create validates and stores a new question.
func (s *QuestionService) Create(ctx context.Context, session auth.Session, candidate quiz.Candidate) (domain.Question, error) {
	if !session.Can(domain.ActionManageQuestions) {
		return domain.Question{}, domain.ErrForbidden
	}
	validated, err := quiz.Validate(candidate)
	if err != nil {
		return domain.Question{}, err
	}
	q, err := s.questions.Create(ctx, validated)
	if err != nil {
		return domain.Question{}, err
	}
	log.Printf("question %s created by %s", q.ID, session.Username)
	return q, nil
}

// Update validates the candidate and replaces the stored question with it.
func (s *QuestionService) Update(ctx context.Context, session auth.Session, id string, candidate quiz.Candidate) (domain.Question, error) {
	if !session.Can(domain.ActionManageQuestions) {
		return domain.Question{}, domain.ErrForbidden
	}
	validated, err := quiz.Validate(candidate)
	if err != nil {
		return domain.Question{}, err
	}
	q, err := s.questions.Replace(ctx, id, validated)
	if err != nil {
		return domain.Question{}, err
	}
	log.Printf("question %s replaced by %s", q.ID, session.Username)
	return q, nil
}

func (s *QuestionService) Delete(ctx context.Context, session auth.Session, id string) error {
	if !session.Can(domain.ActionManageQuestions) {
		return domain.ErrForbidden
	}
	if err := s.questions.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("question %s deleted by %s", id, session.Username)
	return nil
}
