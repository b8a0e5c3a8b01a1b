package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"quiz-assessment-service/internal/app"
)

type quizHandler struct {
	quiz *app.QuizService
}

func (h *quizHandler) start(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	started, err := h.quiz.Start(r.Context(), session)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, started)
}

func (h *quizHandler) submit(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req submitRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.quiz.Submit(r.Context(), session, req.QuizAttemptID, req.submission())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *quizHandler) scores(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	scores, err := h.quiz.Scores(r.Context(), session)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

func (h *quizHandler) result(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.quiz.Result(r.Context(), session, chi.URLParam(r, "attemptID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
