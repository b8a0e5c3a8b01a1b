package quiz

import (
	"time"

	"quiz-assessment-service/internal/domain"
)

// Submission maps a question id to the selected option id. A missing entry
// and an empty id both mean the question was left unanswered.
type Submission map[string]string

// Grade scores a submission against the quiz questions, in quiz order.
// Unanswered questions are wrong, entries for questions outside the quiz are
// ignored and an empty quiz grades to 0 of 0. gradedAt becomes the result's
// end time. The questions are not modified.
func Grade(questions []domain.Question, submission Submission, gradedAt time.Time) domain.QuizResult {
	result := domain.QuizResult{
		TotalQuestions:  len(questions),
		EndTime:         gradedAt,
		QuestionResults: make([]domain.QuestionResult, 0, len(questions)),
	}

	for _, q := range questions {
		var selected *string
		if id := submission[q.ID]; id != "" {
			selected = &id
		}

		correctID := q.CorrectOptionID()
		isCorrect := selected != nil && correctID != "" && *selected == correctID
		if isCorrect {
			result.Score++
		}

		options := make([]domain.Option, len(q.Options))
		copy(options, q.Options)

		result.QuestionResults = append(result.QuestionResults, domain.QuestionResult{
			QuestionID:       q.ID,
			QuestionText:     q.Text,
			Options:          options,
			SelectedOptionID: selected,
			IsCorrect:        isCorrect,
		})
	}
	return result
}

// Answer is one entry of an ordered answer list as sent by a learner.
type Answer struct {
	QuestionID       string
	SelectedOptionID *string
}

// SubmissionFromAnswers folds an ordered answer list into a Submission.
// A later entry for the same question replaces an earlier one.
func SubmissionFromAnswers(answers []Answer) Submission {
	sub := make(Submission, len(answers))
	for _, a := range answers {
		if a.SelectedOptionID == nil {
			sub[a.QuestionID] = ""
			continue
		}
		sub[a.QuestionID] = *a.SelectedOptionID
	}
	return sub
}
