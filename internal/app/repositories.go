package app

import (
	"context"
	"time"

	"quiz-assessment-service/internal/domain"
	"quiz-assessment-service/internal/quiz"
)

// QuestionRepository stores authored questions. Create and Replace assign
// fresh ids to the question and every option.
type QuestionRepository interface {
	Create(ctx context.Context, q quiz.ValidatedQuestion) (domain.Question, error)
	Replace(ctx context.Context, id string, q quiz.ValidatedQuestion) (domain.Question, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
}

// AttemptRepository stores quiz attempts. Finalize must be at-most-once per
// attempt: a second call returns domain.ErrAttemptAlreadyGraded and leaves the
// recorded score untouched.
type AttemptRepository interface {
	Create(ctx context.Context, attempt domain.QuizAttempt) error
	Get(ctx context.Context, id string) (domain.QuizAttempt, error)
	Finalize(ctx context.Context, id string, result domain.QuizResult) (domain.QuizAttempt, error)
	ListGraded(ctx context.Context, userID string) ([]domain.QuizAttempt, error)
}

// UserRepository stores accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
}

// RevocationStore remembers logged-out token ids until the token would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
