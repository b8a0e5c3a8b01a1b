package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"quiz-assessment-service/internal/quiz"
)

var validate = validator.New()

var errBadRequest = errors.New("invalid request body")

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

func (r *signupRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// questionRequest carries an author's candidate question. Blank options are
// allowed here; the authoring rules drop them.
type questionRequest struct {
	QuestionText string          `json:"questionText" validate:"max=500"`
	Options      []optionRequest `json:"options" validate:"max=20,dive"`
}

// Normalize trims texts so length limits apply to what gets stored.
func (r *questionRequest) Normalize() {
	r.QuestionText = strings.TrimSpace(r.QuestionText)
	for i := range r.Options {
		r.Options[i].OptionText = strings.TrimSpace(r.Options[i].OptionText)
	}
}

type optionRequest struct {
	OptionText string `json:"optionText" validate:"max=200"`
	IsCorrect  bool   `json:"isCorrect"`
}

func (r questionRequest) candidate() quiz.Candidate {
	c := quiz.Candidate{Text: r.QuestionText, Options: make([]quiz.CandidateOption, 0, len(r.Options))}
	for _, o := range r.Options {
		c.Options = append(c.Options, quiz.CandidateOption{Text: o.OptionText, IsCorrect: o.IsCorrect})
	}
	return c
}

type submitRequest struct {
	QuizAttemptID string          `json:"quizAttemptId" validate:"required"`
	Answers       []answerRequest `json:"answers" validate:"dive"`
}

type answerRequest struct {
	QuestionID       string  `json:"questionId" validate:"required"`
	SelectedOptionID *string `json:"selectedOptionId"`
}

func (r submitRequest) submission() quiz.Submission {
	answers := make([]quiz.Answer, 0, len(r.Answers))
	for _, a := range r.Answers {
		answers = append(answers, quiz.Answer{QuestionID: a.QuestionID, SelectedOptionID: a.SelectedOptionID})
	}
	return quiz.SubmissionFromAnswers(answers)
}

type normalizer interface {
	Normalize()
}

// decode reads a JSON body into dst, normalizes it and checks its validate tags.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return validate.Struct(dst)
}
