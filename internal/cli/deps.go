package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"quiz-assessment-service/internal/app"
	"quiz-assessment-service/internal/auth"
	"quiz-assessment-service/internal/config"
	"quiz-assessment-service/internal/infra/memory"
	"quiz-assessment-service/internal/infra/postgres"
	infraredis "quiz-assessment-service/internal/infra/redis"
)

// deps is the wired object graph shared by the start and seed commands.
type deps struct {
	questions       app.QuestionRepository
	authService     *app.AuthService
	questionService *app.QuestionService
	quizService     *app.QuizService
	feed            *app.ScoreFeed

	pool        *pgxpool.Pool
	redisClient *redis.Client
}

// buildDeps picks Postgres for users, questions and attempts when configured,
// Redis for attempts, revocations and the question cache when configured,
// and memory for everything else.
func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret not configured")
	}
	d := &deps{}

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		d.pool = pool
	}
	if cfg.Redis.Addr != "" {
		d.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := d.redisClient.Ping(ctx).Err(); err != nil {
			d.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
	}

	var (
		users     app.UserRepository
		questions app.QuestionRepository
		attempts  app.AttemptRepository
		revoked   app.RevocationStore
	)
	switch {
	case d.pool != nil:
		users = postgres.NewUserStore(d.pool)
		questions = postgres.NewQuestionStore(d.pool)
		attempts = postgres.NewAttemptStore(d.pool)
	case d.redisClient != nil:
		users = memory.NewUserStore()
		questions = memory.NewQuestionStore()
		attempts = infraredis.NewAttemptStore(d.redisClient)
	default:
		users = memory.NewUserStore()
		questions = memory.NewQuestionStore()
		attempts = memory.NewAttemptStore()
	}

	poolTTL := config.TTLDuration(cfg.Quiz.TTL, 5*time.Minute)
	if d.redisClient != nil {
		questions = infraredis.NewQuestionCache(d.redisClient, questions, poolTTL)
		revoked = infraredis.NewRevocationStore(d.redisClient)
	} else {
		questions = memory.NewQuestionCache(questions, poolTTL)
		revoked = memory.NewRevocationStore()
	}

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))

	d.questions = questions
	d.feed = app.NewScoreFeed()
	d.authService = app.NewAuthService(users, revoked, tokens)
	d.questionService = app.NewQuestionService(questions)
	d.quizService = app.NewQuizService(questions, attempts, d.feed, app.QuizSettings{
		Size:    cfg.Quiz.Size,
		Shuffle: cfg.Quiz.Shuffle,
	})
	log.Printf("storage: postgres=%v redis=%v", d.pool != nil, d.redisClient != nil)
	return d, nil
}

func (d *deps) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
	if d.redisClient != nil {
		_ = d.redisClient.Close()
	}
}
