package app

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"quiz-assessment-service/internal/auth"
	"quiz-assessment-service/internal/domain"
	"quiz-assessment-service/internal/quiz"
)

// QuizSettings controls how a quiz is drawn from the question pool.
type QuizSettings struct {
	// Size caps the number of questions per quiz; 0 means every question.
	Size int
	// Shuffle randomizes question order before the cap is applied.
	Shuffle bool
}

// StartedQuiz is what a learner receives when starting a quiz.
type StartedQuiz struct {
	QuizAttemptID string                  `json:"quizAttemptId"`
	StartTime     time.Time               `json:"startTime"`
	Questions     []domain.PublicQuestion `json:"questions"`
}

// QuizService contains the quiz-taking use cases.
type QuizService struct {
	questions QuestionRepository
	attempts  AttemptRepository
	feed      *ScoreFeed
	settings  QuizSettings
	now       func() time.Time
}

func NewQuizService(questions QuestionRepository, attempts AttemptRepository, feed *ScoreFeed, settings QuizSettings) *QuizService {
	return NewQuizServiceWithClock(questions, attempts, feed, settings, time.Now)
}

// NewQuizServiceWithClock is test-only for deterministic timestamps.
func NewQuizServiceWithClock(questions QuestionRepository, attempts AttemptRepository, feed *ScoreFeed, settings QuizSettings, now func() time.Time) *QuizService {
	return &QuizService{
		questions: questions,
		attempts:  attempts,
		feed:      feed,
		settings:  settings,
		now:       now,
	}
}

// Start snapshots a selection of questions into a new attempt and returns
// them with correctness flags stripped.
func (s *QuizService) Start(ctx context.Context, session auth.Session) (StartedQuiz, error) {
	if !session.Can(domain.ActionTakeQuiz) {
		return StartedQuiz{}, domain.ErrForbidden
	}

	pool, err := s.questions.List(ctx)
	if err != nil {
		return StartedQuiz{}, err
	}
	selected := s.selectQuestions(pool)

	attempt := domain.QuizAttempt{
		ID:             uuid.NewString(),
		UserID:         session.UserID,
		StartedAt:      s.now(),
		TotalQuestions: len(selected),
		Questions:      selected,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return StartedQuiz{}, err
	}

	public := make([]domain.PublicQuestion, 0, len(selected))
	for _, q := range selected {
		public = append(public, q.Public())
	}
	return StartedQuiz{
		QuizAttemptID: attempt.ID,
		StartTime:     attempt.StartedAt,
		Questions:     public,
	}, nil
}

// Submit grades an attempt exactly once and records the result.
func (s *QuizService) Submit(ctx context.Context, session auth.Session, attemptID string, submission quiz.Submission) (domain.QuizResult, error) {
	if !session.Can(domain.ActionTakeQuiz) {
		return domain.QuizResult{}, domain.ErrForbidden
	}

	attempt, err := s.ownedAttempt(ctx, session, attemptID)
	if err != nil {
		return domain.QuizResult{}, err
	}
	if attempt.Graded() {
		return domain.QuizResult{}, domain.ErrAttemptAlreadyGraded
	}

	result := quiz.Grade(attempt.Questions, submission, s.now())
	result.QuizAttemptID = attempt.ID

	finalized, err := s.attempts.Finalize(ctx, attempt.ID, result)
	if err != nil {
		return domain.QuizResult{}, err
	}
	log.Printf("attempt %s graded for %s: %d/%d", finalized.ID, session.Username, finalized.Score, finalized.TotalQuestions)

	if s.feed != nil {
		s.feed.Publish(session.UserID, finalized.Summary())
	}
	return finalized.Result(), nil
}

// Scores lists the caller's graded attempts, most recently started first.
func (s *QuizService) Scores(ctx context.Context, session auth.Session) ([]domain.ScoreSummary, error) {
	if !session.Can(domain.ActionViewScores) {
		return nil, domain.ErrForbidden
	}
	attempts, err := s.attempts.ListGraded(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].StartedAt.After(attempts[j].StartedAt)
	})
	summaries := make([]domain.ScoreSummary, 0, len(attempts))
	for _, a := range attempts {
		if !a.Graded() {
			continue
		}
		summaries = append(summaries, a.Summary())
	}
	return summaries, nil
}

// Result returns the per-question breakdown of one of the caller's graded attempts.
func (s *QuizService) Result(ctx context.Context, session auth.Session, attemptID string) (domain.QuizResult, error) {
	if !session.Can(domain.ActionViewScores) {
		return domain.QuizResult{}, domain.ErrForbidden
	}
	attempt, err := s.ownedAttempt(ctx, session, attemptID)
	if err != nil {
		return domain.QuizResult{}, err
	}
	if !attempt.Graded() {
		return domain.QuizResult{}, domain.ErrAttemptNotFound
	}
	return attempt.Result(), nil
}

func (s *QuizService) ownedAttempt(ctx context.Context, session auth.Session, attemptID string) (domain.QuizAttempt, error) {
	attempt, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		return domain.QuizAttempt{}, err
	}
	// Someone else's attempt is reported as missing.
	if attempt.UserID != session.UserID {
		return domain.QuizAttempt{}, domain.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *QuizService) selectQuestions(pool []domain.Question) []domain.Question {
	selected := make([]domain.Question, len(pool))
	copy(selected, pool)
	if s.settings.Shuffle {
		rand.Shuffle(len(selected), func(i, j int) {
			selected[i], selected[j] = selected[j], selected[i]
		})
	}
	if s.settings.Size > 0 && s.settings.Size < len(selected) {
		selected = selected[:s.settings.Size]
	}
	return selected
}
