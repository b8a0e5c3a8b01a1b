package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"quiz-assessment-service/internal/app"
	"quiz-assessment-service/internal/domain"
	"quiz-assessment-service/internal/quiz"
)

// QuestionCache caches the question pool in Redis and falls back to the store on miss.
// The pool is stored as one JSON document: SET quiz:questions:pool {json} EX ttl.
// Writes go to the store first, then INCR quiz:questions:version and delete the
// cached document. A load only caches its pool if the version is unchanged
// since before it read the store.
type QuestionCache struct {
	app.QuestionRepository
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionCache(client *redis.Client, store app.QuestionRepository, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		QuestionRepository: store,
		client:             client,
		ttl:                ttl,
		rnd:                rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) List(ctx context.Context) ([]domain.Question, error) {
	if pool, ok := c.cached(ctx); ok {
		return pool, nil
	}

	result, err, _ := c.sf.Do(poolKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if pool, ok := c.cached(ctx); ok {
			return pool, nil
		}

		version, err := c.version(ctx)
		if err != nil {
			log.Printf("read question pool version: %v", err)
		}

		pool, err := c.QuestionRepository.List(ctx)
		if err != nil {
			return nil, err
		}

		if ttl := c.ttlWithJitter(); ttl > 0 && version >= 0 {
			if err := c.store(ctx, pool, version, ttl); err != nil {
				log.Printf("cache question pool: %v", err)
			}
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) Create(ctx context.Context, v quiz.ValidatedQuestion) (domain.Question, error) {
	defer c.invalidate(ctx)
	return c.QuestionRepository.Create(ctx, v)
}

func (c *QuestionCache) Replace(ctx context.Context, id string, v quiz.ValidatedQuestion) (domain.Question, error) {
	defer c.invalidate(ctx)
	return c.QuestionRepository.Replace(ctx, id, v)
}

func (c *QuestionCache) Delete(ctx context.Context, id string) error {
	defer c.invalidate(ctx)
	return c.QuestionRepository.Delete(ctx, id)
}

func (c *QuestionCache) cached(ctx context.Context) ([]domain.Question, bool) {
	data, err := c.client.Get(ctx, poolKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("read cached question pool: %v", err)
		}
		return nil, false
	}
	var pool []domain.Question
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, false
	}
	return pool, true
}

// store caches the pool unless a write bumped the version since it was read.
func (c *QuestionCache) store(ctx context.Context, pool []domain.Question, version int64, ttl time.Duration) error {
	data, err := json.Marshal(pool)
	if err != nil {
		return err
	}
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, poolVersionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, poolKey, data, ttl)
			return nil
		})
		return err
	}
	err = c.client.Watch(ctx, txf, poolVersionKey)
	if errors.Is(err, redis.TxFailedErr) {
		// A write landed mid-load; leave the pool uncached.
		return nil
	}
	return err
}

// version returns the current pool version, 0 if no write happened yet and
// -1 if it could not be read.
func (c *QuestionCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, poolVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return -1, err
	}
	return v, nil
}

func (c *QuestionCache) invalidate(ctx context.Context) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, poolVersionKey)
		pipe.Del(ctx, poolKey)
		return nil
	})
	if err != nil {
		log.Printf("invalidate question pool: %v", err)
	}
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
