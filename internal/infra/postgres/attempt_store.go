package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"quiz-assessment-service/internal/domain"
)

// AttemptStore persists quiz attempts. The question snapshot and the graded
// results are kept as JSONB next to the score columns.
type AttemptStore struct {
	pool *pgxpool.Pool
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

const attemptColumns = `id, user_id, started_at, ended_at, score, total_questions, questions, results`

func (s *AttemptStore) Create(ctx context.Context, attempt domain.QuizAttempt) error {
	questions, err := json.Marshal(attempt.Questions)
	if err != nil {
		return fmt.Errorf("marshal attempt questions: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quiz_attempts (id, user_id, started_at, total_questions, questions) VALUES ($1, $2, $3, $4, $5)`,
		attempt.ID, attempt.UserID, attempt.StartedAt.UTC(), attempt.TotalQuestions, questions,
	)
	if err != nil {
		return fmt.Errorf("create attempt: %w", err)
	}
	return nil
}

func (s *AttemptStore) Get(ctx context.Context, id string) (domain.QuizAttempt, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+attemptColumns+` FROM quiz_attempts WHERE id=$1`, id)
	attempt, err := scanAttempt(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizAttempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.QuizAttempt{}, fmt.Errorf("load attempt: %w", err)
	}
	return attempt, nil
}

// Finalize records the result only while ended_at is still NULL, so exactly
// one of any number of concurrent submits wins.
func (s *AttemptStore) Finalize(ctx context.Context, id string, result domain.QuizResult) (domain.QuizAttempt, error) {
	results, err := json.Marshal(result.QuestionResults)
	if err != nil {
		return domain.QuizAttempt{}, fmt.Errorf("marshal results: %w", err)
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE quiz_attempts
		SET ended_at = GREATEST($2::timestamptz, started_at), score = $3, total_questions = $4, results = $5
		WHERE id = $1 AND ended_at IS NULL
		RETURNING `+attemptColumns,
		id, result.EndTime.UTC(), result.Score, result.TotalQuestions, results,
	)
	attempt, err := scanAttempt(row)
	if err == nil {
		return attempt, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizAttempt{}, fmt.Errorf("finalize attempt: %w", err)
	}

	// Nothing updated: either the attempt is unknown or it was already graded.
	if _, err := s.Get(ctx, id); err != nil {
		return domain.QuizAttempt{}, err
	}
	return domain.QuizAttempt{}, domain.ErrAttemptAlreadyGraded
}

// ListGraded returns the user's graded attempts, most recently started first.
func (s *AttemptStore) ListGraded(ctx context.Context, userID string) ([]domain.QuizAttempt, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+attemptColumns+` FROM quiz_attempts WHERE user_id=$1 AND ended_at IS NOT NULL ORDER BY started_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []domain.QuizAttempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return out, nil
}

func scanAttempt(row pgx.Row) (domain.QuizAttempt, error) {
	var (
		attempt   domain.QuizAttempt
		endedAt   *time.Time
		questions []byte
		results   []byte
	)
	if err := row.Scan(
		&attempt.ID, &attempt.UserID, &attempt.StartedAt, &endedAt,
		&attempt.Score, &attempt.TotalQuestions, &questions, &results,
	); err != nil {
		return domain.QuizAttempt{}, err
	}
	attempt.EndedAt = endedAt
	if err := json.Unmarshal(questions, &attempt.Questions); err != nil {
		return domain.QuizAttempt{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	if len(results) > 0 {
		if err := json.Unmarshal(results, &attempt.Results); err != nil {
			return domain.QuizAttempt{}, fmt.Errorf("unmarshal results: %w", err)
		}
	}
	return attempt, nil
}
