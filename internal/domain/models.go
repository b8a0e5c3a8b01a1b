package domain

import "time"

// Option represents a possible answer for a question.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"optionText"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID        string    `json:"id"`
	Text      string    `json:"questionText"`
	Options   []Option  `json:"options"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CorrectOptionID returns the id of the option flagged correct, or "" if none is.
func (q Question) CorrectOptionID() string {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt.ID
		}
	}
	return ""
}

// PublicOption is an option as served to a learner before grading.
type PublicOption struct {
	ID   string `json:"id"`
	Text string `json:"optionText"`
}

// PublicQuestion is a question with correctness flags stripped.
type PublicQuestion struct {
	ID      string         `json:"id"`
	Text    string         `json:"questionText"`
	Options []PublicOption `json:"options"`
}

// Public strips correctness flags so the question can be served to a learner.
func (q Question) Public() PublicQuestion {
	options := make([]PublicOption, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, PublicOption{ID: opt.ID, Text: opt.Text})
	}
	return PublicQuestion{ID: q.ID, Text: q.Text, Options: options}
}

// QuestionResult is the graded outcome of one question in a quiz.
type QuestionResult struct {
	QuestionID       string   `json:"questionId"`
	QuestionText     string   `json:"questionText"`
	Options          []Option `json:"options"`
	SelectedOptionID *string  `json:"selectedOptionId"`
	IsCorrect        bool     `json:"isCorrect"`
}

// QuizResult is the graded outcome of a whole quiz.
type QuizResult struct {
	QuizAttemptID   string           `json:"quizAttemptId"`
	Score           int              `json:"score"`
	TotalQuestions  int              `json:"totalQuestions"`
	EndTime         time.Time        `json:"endTime"`
	QuestionResults []QuestionResult `json:"questionResults"`
}

// QuizAttempt is one learner's run through a snapshot of questions.
// EndedAt stays nil until the attempt is graded; after that it never changes.
type QuizAttempt struct {
	ID             string           `json:"id"`
	UserID         string           `json:"userId"`
	StartedAt      time.Time        `json:"startedAt"`
	EndedAt        *time.Time       `json:"endedAt,omitempty"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	Questions      []Question       `json:"questions"`
	Results        []QuestionResult `json:"results,omitempty"`
}

// Graded reports whether the attempt has been finalized.
func (a QuizAttempt) Graded() bool {
	return a.EndedAt != nil
}

// Finalize applies a grading result to a pending attempt.
func (a QuizAttempt) Finalize(result QuizResult) QuizAttempt {
	end := result.EndTime
	if end.Before(a.StartedAt) {
		end = a.StartedAt
	}
	a.EndedAt = &end
	a.Score = result.Score
	a.TotalQuestions = result.TotalQuestions
	a.Results = result.QuestionResults
	return a
}

// Summary is the score-history view of a graded attempt.
func (a QuizAttempt) Summary() ScoreSummary {
	s := ScoreSummary{
		QuizAttemptID:  a.ID,
		Score:          a.Score,
		TotalQuestions: a.TotalQuestions,
		StartTime:      a.StartedAt,
	}
	if a.EndedAt != nil {
		s.EndTime = *a.EndedAt
	}
	return s
}

// Result rebuilds the graded result of a finalized attempt.
func (a QuizAttempt) Result() QuizResult {
	r := QuizResult{
		QuizAttemptID:   a.ID,
		Score:           a.Score,
		TotalQuestions:  a.TotalQuestions,
		QuestionResults: a.Results,
	}
	if a.EndedAt != nil {
		r.EndTime = *a.EndedAt
	}
	return r
}

// ScoreSummary is one row of a user's score history.
type ScoreSummary struct {
	QuizAttemptID  string    `json:"quizAttemptId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
}

// User is an account that can author questions or take quizzes.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
