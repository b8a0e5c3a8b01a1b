package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"quiz-assessment-service/internal/domain"
	"quiz-assessment-service/internal/quiz"
)

type errorPayload struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Count *int   `json:"count,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeError maps errors onto statuses. Authoring rule violations are 422
// with their kind; unmapped errors are logged and reported as 500.
func writeError(w http.ResponseWriter, err error) {
	var verr *quiz.ValidationError
	if errors.As(err, &verr) {
		payload := errorPayload{Error: verr.Error(), Code: string(verr.Kind)}
		if verr.Kind == quiz.InsufficientOptions || verr.Kind == quiz.MultipleCorrectOptions {
			count := verr.Count
			payload.Count = &count
		}
		writeJSON(w, http.StatusUnprocessableEntity, payload)
		return
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: fieldErrs.Error(), Code: "INVALID_REQUEST"})
		return
	}

	status, code := http.StatusInternalServerError, ""
	switch {
	case errors.Is(err, errBadRequest):
		status, code = http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrQuestionNotFound):
		status, code = http.StatusNotFound, "QUESTION_NOT_FOUND"
	case errors.Is(err, domain.ErrAttemptNotFound):
		status, code = http.StatusNotFound, "ATTEMPT_NOT_FOUND"
	case errors.Is(err, domain.ErrUserNotFound):
		status, code = http.StatusNotFound, "USER_NOT_FOUND"
	case errors.Is(err, domain.ErrAttemptAlreadyGraded):
		status, code = http.StatusConflict, "ATTEMPT_ALREADY_GRADED"
	case errors.Is(err, domain.ErrUsernameTaken):
		status, code = http.StatusConflict, "USERNAME_TAKEN"
	case errors.Is(err, domain.ErrEmailTaken):
		status, code = http.StatusConflict, "EMAIL_TAKEN"
	}
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
		writeJSON(w, status, errorPayload{Error: "operation failed"})
		return
	}
	writeJSON(w, status, errorPayload{Error: err.Error(), Code: code})
}
