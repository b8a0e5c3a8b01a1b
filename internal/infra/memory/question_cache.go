package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"quiz-assessment-service/internal/app"
	"quiz-assessment-service/internal/domain"
	"quiz-assessment-service/internal/quiz"
)

const poolKey = "pool"

// QuestionCache caches the question pool with TTL to avoid repeated store hits
// when quizzes start. Writes go straight to the store and drop the cached pool.
type QuestionCache struct {
	app.QuestionRepository
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu        sync.RWMutex
	pool      []domain.Question
	expiresAt time.Time
	// generation is bumped on every write so a load that raced a write is not cached.
	generation uint64
}

func NewQuestionCache(store app.QuestionRepository, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		QuestionRepository: store,
		ttl:                ttl,
		clock:              time.Now,
		rnd:                rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) List(ctx context.Context) ([]domain.Question, error) {
	if pool, ok := c.cached(); ok {
		return pool, nil
	}

	result, err, _ := c.sf.Do(poolKey, func() (interface{}, error) {
		if pool, ok := c.cached(); ok {
			return pool, nil
		}

		c.mu.RLock()
		gen := c.generation
		c.mu.RUnlock()

		pool, err := c.QuestionRepository.List(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if gen == c.generation {
			c.pool = pool
			c.expiresAt = c.clock().Add(c.ttlWithJitter())
		}
		c.mu.Unlock()
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return copyPool(result.([]domain.Question)), nil
}

func (c *QuestionCache) Create(ctx context.Context, v quiz.ValidatedQuestion) (domain.Question, error) {
	defer c.invalidate()
	return c.QuestionRepository.Create(ctx, v)
}

func (c *QuestionCache) Replace(ctx context.Context, id string, v quiz.ValidatedQuestion) (domain.Question, error) {
	defer c.invalidate()
	return c.QuestionRepository.Replace(ctx, id, v)
}

func (c *QuestionCache) Delete(ctx context.Context, id string) error {
	defer c.invalidate()
	return c.QuestionRepository.Delete(ctx, id)
}

func (c *QuestionCache) cached() ([]domain.Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.pool == nil || !c.expiresAt.After(c.clock()) {
		return nil, false
	}
	return copyPool(c.pool), true
}

func (c *QuestionCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pool = nil
	c.generation++
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func copyPool(pool []domain.Question) []domain.Question {
	out := make([]domain.Question, len(pool))
	for i, q := range pool {
		out[i] = cloneQuestion(q)
	}
	return out
}
