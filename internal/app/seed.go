package app

import (
	"context"
	"fmt"
	"log"

	"quiz-assessment-service/internal/domain"
	"quiz-assessment-service/internal/quiz"
)

// Seed creates the default admin and user accounts and, when no question
// exists yet, a few sample questions. It is safe to run repeatedly.
func Seed(ctx context.Context, users *AuthService, questions QuestionRepository) error {
	if err := users.EnsureUser(ctx, "admin", "admin@quiz.com", "admin123", domain.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := users.EnsureUser(ctx, "user", "user@quiz.com", "user123", domain.RoleUser); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	existing, err := questions.List(ctx)
	if err != nil {
		return fmt.Errorf("seed questions: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, c := range sampleQuestions() {
		validated, err := quiz.Validate(c)
		if err != nil {
			return fmt.Errorf("seed question %q: %w", c.Text, err)
		}
		if _, err := questions.Create(ctx, validated); err != nil {
			return fmt.Errorf("seed question %q: %w", c.Text, err)
		}
	}
	log.Printf("seeded %d sample questions", len(sampleQuestions()))
	return nil
}

func sampleQuestions() []quiz.Candidate {
	return []quiz.Candidate{
		{
			Text: "What is the capital of France?",
			Options: []quiz.CandidateOption{
				{Text: "London"},
				{Text: "Paris", IsCorrect: true},
				{Text: "Berlin"},
				{Text: "Madrid"},
			},
		},
		{
			Text: "Which planet is known as the Red Planet?",
			Options: []quiz.CandidateOption{
				{Text: "Venus"},
				{Text: "Mars", IsCorrect: true},
				{Text: "Jupiter"},
				{Text: "Saturn"},
			},
		},
		{
			Text: "What is 2 + 2?",
			Options: []quiz.CandidateOption{
				{Text: "3"},
				{Text: "4", IsCorrect: true},
				{Text: "5"},
				{Text: "6"},
			},
		},
	}
}
