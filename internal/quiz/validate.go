// Package quiz holds the question authoring rules and the grading algorithm.
// Both are pure functions over their inputs and safe for concurrent use.
package quiz

import (
	"fmt"
	"strings"
)

// Candidate is a question as submitted by an author, before validation.
type Candidate struct {
	Text    string
	Options []CandidateOption
}

// CandidateOption is one proposed answer of a Candidate.
type CandidateOption struct {
	Text      string
	IsCorrect bool
}

// ValidatedQuestion is a candidate that satisfies every storage invariant.
// Ids are assigned by the store that persists it.
type ValidatedQuestion struct {
	Text    string
	Options []CandidateOption
}

// ErrorKind identifies which authoring rule a candidate broke.
type ErrorKind string

const (
	EmptyQuestionText      ErrorKind = "EMPTY_QUESTION_TEXT"
	InsufficientOptions    ErrorKind = "INSUFFICIENT_OPTIONS"
	NoCorrectOption        ErrorKind = "NO_CORRECT_OPTION"
	MultipleCorrectOptions ErrorKind = "MULTIPLE_CORRECT_OPTIONS"
)

// MinOptions is the fewest non-empty options a question may have.
const MinOptions = 2

// ValidationError reports a rejected candidate. Count carries the number of
// options (or correct options) found when the rule concerns a count.
type ValidationError struct {
	Kind  ErrorKind
	Count int
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case EmptyQuestionText:
		return "question text is required"
	case InsufficientOptions:
		return fmt.Sprintf("at least %d non-empty options are required, got %d", MinOptions, e.Count)
	case NoCorrectOption:
		return "exactly one option must be marked correct, got none"
	case MultipleCorrectOptions:
		return fmt.Sprintf("exactly one option must be marked correct, got %d", e.Count)
	default:
		return "invalid question: " + string(e.Kind)
	}
}

// Is matches any ValidationError of the same kind, so callers can write
// errors.Is(err, quiz.ErrNoCorrectOption).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

var (
	ErrEmptyQuestionText      = &ValidationError{Kind: EmptyQuestionText}
	ErrInsufficientOptions    = &ValidationError{Kind: InsufficientOptions}
	ErrNoCorrectOption        = &ValidationError{Kind: NoCorrectOption}
	ErrMultipleCorrectOptions = &ValidationError{Kind: MultipleCorrectOptions}
)

// Validate checks a candidate question. Rules run in order and the first
// failure is returned: non-empty text, blank options dropped, at least two
// options left, exactly one of them correct.
func Validate(c Candidate) (ValidatedQuestion, error) {
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return ValidatedQuestion{}, &ValidationError{Kind: EmptyQuestionText}
	}

	options := make([]CandidateOption, 0, len(c.Options))
	for _, opt := range c.Options {
		optText := strings.TrimSpace(opt.Text)
		if optText == "" {
			continue
		}
		options = append(options, CandidateOption{Text: optText, IsCorrect: opt.IsCorrect})
	}
	if len(options) < MinOptions {
		return ValidatedQuestion{}, &ValidationError{Kind: InsufficientOptions, Count: len(options)}
	}

	correct := 0
	for _, opt := range options {
		if opt.IsCorrect {
			correct++
		}
	}
	switch {
	case correct == 0:
		return ValidatedQuestion{}, &ValidationError{Kind: NoCorrectOption}
	case correct > 1:
		return ValidatedQuestion{}, &ValidationError{Kind: MultipleCorrectOptions, Count: correct}
	}

	return ValidatedQuestion{Text: text, Options: options}, nil
}
