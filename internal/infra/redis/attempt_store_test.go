package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"quiz-assessment-service/internal/domain"
)

func TestAttemptStoreFinalizeOnce(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewAttemptStore(newClient(mr))
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if err := store.Create(ctx, sampleAttempt("a1", "u1", start)); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := store.Finalize(ctx, "a1", domain.QuizResult{Score: 1, TotalQuestions: 1, EndTime: start.Add(time.Minute)})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !first.Graded() || first.Score != 1 {
		t.Fatalf("unexpected finalized attempt: %+v", first)
	}

	if _, err := store.Finalize(ctx, "a1", domain.QuizResult{Score: 0, TotalQuestions: 1, EndTime: start.Add(2 * time.Minute)}); !errors.Is(err, domain.ErrAttemptAlreadyGraded) {
		t.Fatalf("expected already graded, got %v", err)
	}

	stored, err := store.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Score != 1 || !stored.EndedAt.Equal(start.Add(time.Minute)) {
		t.Fatalf("second submit overwrote the score: %+v", stored)
	}
}

func TestAttemptStoreConcurrentFinalize(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewAttemptStore(newClient(mr))
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if err := store.Create(ctx, sampleAttempt("a1", "u1", start)); err != nil {
		t.Fatalf("create: %v", err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Finalize(ctx, "a1", domain.QuizResult{Score: 1, TotalQuestions: 1, EndTime: start})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if successes != 1 {
		t.Fatalf("expected exactly one successful finalize, got %d", successes)
	}
}

func TestAttemptStoreListGradedNewestFirst(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewAttemptStore(newClient(mr))
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new", "pending"} {
		if err := store.Create(ctx, sampleAttempt(id, "u1", start.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	for _, id := range []string{"old", "new"} {
		if _, err := store.Finalize(ctx, id, domain.QuizResult{EndTime: start.Add(3 * time.Hour)}); err != nil {
			t.Fatalf("finalize %s: %v", id, err)
		}
	}

	list, err := store.ListGraded(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "new" || list[1].ID != "old" {
		t.Fatalf("expected [new old], got %+v", list)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, domain.ErrAttemptNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func sampleAttempt(id, userID string, start time.Time) domain.QuizAttempt {
	return domain.QuizAttempt{
		ID:             id,
		UserID:         userID,
		StartedAt:      start,
		TotalQuestions: 1,
		Questions: []domain.Question{
			{
				ID:   "q1",
				Text: "What is 2 + 2?",
				Options: []domain.Option{
					{ID: "o1", Text: "3"},
					{ID: "o2", Text: "4", IsCorrect: true},
				},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
