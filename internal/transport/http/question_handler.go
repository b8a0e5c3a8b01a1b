package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"quiz-assessment-service/internal/app"
)

type questionHandler struct {
	questions *app.QuestionService
}

func (h *questionHandler) list(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	questions, err := h.questions.List(r.Context(), session)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *questionHandler) get(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q, err := h.questions.Get(r.Context(), session, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *questionHandler) create(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req questionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	q, err := h.questions.Create(r.Context(), session, req.candidate())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *questionHandler) update(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req questionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	q, err := h.questions.Update(r.Context(), session, chi.URLParam(r, "id"), req.candidate())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *questionHandler) delete(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.questions.Delete(r.Context(), session, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
