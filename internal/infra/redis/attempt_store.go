package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"quiz-assessment-service/internal/domain"
)

const finalizeRetries = 5

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// AttemptStore keeps quiz attempts in Redis.
// Attempts are stored as:      SET  quiz:attempt:{id} {json}
// Graded attempts indexed as:  ZADD quiz:user:{userID}:graded {startUnixNano} {id}
// Finalize is an optimistic WATCH/MULTI transaction on the attempt key, so two
// concurrent submits can never both record a score.
type AttemptStore struct {
	client *redis.Client
}

func NewAttemptStore(client *redis.Client) *AttemptStore {
	return &AttemptStore{client: client}
}

func (s *AttemptStore) Create(ctx context.Context, attempt domain.QuizAttempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	ok, err := s.client.SetNX(ctx, attemptKey(attempt.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("store attempt: %w", err)
	}
	if !ok {
		return fmt.Errorf("store attempt: id %s already exists", attempt.ID)
	}
	return nil
}

func (s *AttemptStore) Get(ctx context.Context, id string) (domain.QuizAttempt, error) {
	return s.load(ctx, s.client, id)
}

func (s *AttemptStore) Finalize(ctx context.Context, id string, result domain.QuizResult) (domain.QuizAttempt, error) {
	key := attemptKey(id)
	var finalized domain.QuizAttempt

	txf := func(tx *redis.Tx) error {
		attempt, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if attempt.Graded() {
			return domain.ErrAttemptAlreadyGraded
		}
		attempt = attempt.Finalize(result)
		data, err := json.Marshal(attempt)
		if err != nil {
			return fmt.Errorf("marshal attempt: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZAdd(ctx, gradedKey(attempt.UserID), redis.Z{
				Score:  float64(attempt.StartedAt.UnixNano()),
				Member: attempt.ID,
			})
			return nil
		})
		if err != nil {
			return err
		}
		finalized = attempt
		return nil
	}

	for i := 0; i < finalizeRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			// Someone else touched the attempt; reload and decide again.
			continue
		}
		if err != nil {
			return domain.QuizAttempt{}, err
		}
		return finalized, nil
	}
	return domain.QuizAttempt{}, fmt.Errorf("finalize attempt %s: too much contention", id)
}

// ListGraded returns the user's graded attempts, most recently started first.
func (s *AttemptStore) ListGraded(ctx context.Context, userID string) ([]domain.QuizAttempt, error) {
	ids, err := s.client.ZRevRange(ctx, gradedKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list graded attempts: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, attemptKey(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load graded attempts: %w", err)
	}
	out := make([]domain.QuizAttempt, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var attempt domain.QuizAttempt
		if err := json.Unmarshal([]byte(raw), &attempt); err != nil {
			return nil, fmt.Errorf("unmarshal attempt: %w", err)
		}
		out = append(out, attempt)
	}
	return out, nil
}

func (s *AttemptStore) load(ctx context.Context, c getter, id string) (domain.QuizAttempt, error) {
	data, err := c.Get(ctx, attemptKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.QuizAttempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.QuizAttempt{}, fmt.Errorf("load attempt: %w", err)
	}
	var attempt domain.QuizAttempt
	if err := json.Unmarshal(data, &attempt); err != nil {
		return domain.QuizAttempt{}, fmt.Errorf("unmarshal attempt: %w", err)
	}
	return attempt, nil
}
