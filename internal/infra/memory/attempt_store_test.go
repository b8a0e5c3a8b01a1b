package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quiz-assessment-service/internal/domain"
)

func TestAttemptStoreFinalizesOnce(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if err := store.Create(ctx, domain.QuizAttempt{ID: "a1", UserID: "u1", StartedAt: start, TotalQuestions: 2}); err != nil {
		t.Fatalf("create: %v", err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, err := store.Finalize(ctx, "a1", domain.QuizResult{Score: score % 3, TotalQuestions: 2, EndTime: start.Add(time.Minute)})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrAttemptAlreadyGraded):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 || conflicts != 9 {
		t.Fatalf("expected 1 success and 9 conflicts, got %d/%d", successes, conflicts)
	}
}

func TestAttemptStoreListsOnlyGradedForUser(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	_ = store.Create(ctx, domain.QuizAttempt{ID: "a1", UserID: "u1", StartedAt: start})
	_ = store.Create(ctx, domain.QuizAttempt{ID: "a2", UserID: "u1", StartedAt: start})
	_ = store.Create(ctx, domain.QuizAttempt{ID: "a3", UserID: "u2", StartedAt: start})
	if _, err := store.Finalize(ctx, "a1", domain.QuizResult{EndTime: start}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if _, err := store.Finalize(ctx, "a3", domain.QuizResult{EndTime: start}); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	list, err := store.ListGraded(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "a1" {
		t.Fatalf("expected only a1, got %+v", list)
	}

	if _, err := store.Finalize(ctx, "missing", domain.QuizResult{}); !errors.Is(err, domain.ErrAttemptNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
