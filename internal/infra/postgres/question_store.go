package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"quiz-assessment-service/internal/domain"
	"quiz-assessment-service/internal/quiz"
)

// QuestionStore persists questions and their options in Postgres.
type QuestionStore struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool, clock: time.Now}
}

func (s *QuestionStore) Create(ctx context.Context, v quiz.ValidatedQuestion) (domain.Question, error) {
	now := s.clock().UTC()
	q := domain.Question{ID: uuid.NewString(), Text: v.Text, CreatedAt: now, UpdatedAt: now}

	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO questions (id, question_text, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
			q.ID, q.Text, q.CreatedAt, q.UpdatedAt,
		); err != nil {
			return err
		}
		opts, err := insertOptions(ctx, tx, q.ID, v.Options)
		if err != nil {
			return err
		}
		q.Options = opts
		return nil
	})
	if err != nil {
		return domain.Question{}, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

// Replace swaps the question text and its whole option set in one transaction.
func (s *QuestionStore) Replace(ctx context.Context, id string, v quiz.ValidatedQuestion) (domain.Question, error) {
	now := s.clock().UTC()
	var q domain.Question

	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE questions SET question_text=$2, updated_at=$3 WHERE id=$1 RETURNING id, question_text, created_at, updated_at`,
			id, v.Text, now,
		).Scan(&q.ID, &q.Text, &q.CreatedAt, &q.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrQuestionNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM options WHERE question_id=$1`, id); err != nil {
			return err
		}
		opts, err := insertOptions(ctx, tx, id, v.Options)
		if err != nil {
			return err
		}
		q.Options = opts
		return nil
	})
	if errors.Is(err, domain.ErrQuestionNotFound) {
		return domain.Question{}, err
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("replace question: %w", err)
	}
	return q, nil
}

func (s *QuestionStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *QuestionStore) Get(ctx context.Context, id string) (domain.Question, error) {
	questions, err := s.query(ctx, `WHERE q.id=$1`, id)
	if err != nil {
		return domain.Question{}, err
	}
	if len(questions) == 0 {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return questions[0], nil
}

// List returns questions in creation order.
func (s *QuestionStore) List(ctx context.Context) ([]domain.Question, error) {
	return s.query(ctx, ``)
}

func (s *QuestionStore) query(ctx context.Context, where string, args ...interface{}) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT q.id, q.question_text, q.created_at, q.updated_at, o.id, o.option_text, o.is_correct
		FROM questions q
		JOIN options o ON o.question_id = q.id
		`+where+`
		ORDER BY q.created_at, q.id, o.position`, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var (
			q   domain.Question
			opt domain.Option
		)
		if err := rows.Scan(&q.ID, &q.Text, &q.CreatedAt, &q.UpdatedAt, &opt.ID, &opt.Text, &opt.IsCorrect); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if n := len(out); n > 0 && out[n-1].ID == q.ID {
			out[n-1].Options = append(out[n-1].Options, opt)
			continue
		}
		q.Options = []domain.Option{opt}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	if out == nil {
		out = []domain.Question{}
	}
	return out, nil
}

func insertOptions(ctx context.Context, tx pgx.Tx, questionID string, in []quiz.CandidateOption) ([]domain.Option, error) {
	out := make([]domain.Option, 0, len(in))
	batch := &pgx.Batch{}
	for i, opt := range in {
		o := domain.Option{ID: uuid.NewString(), Text: opt.Text, IsCorrect: opt.IsCorrect}
		batch.Queue(
			`INSERT INTO options (id, question_id, position, option_text, is_correct) VALUES ($1, $2, $3, $4, $5)`,
			o.ID, questionID, i, o.Text, o.IsCorrect,
		)
		out = append(out, o)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range in {
		if _, err := results.Exec(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
