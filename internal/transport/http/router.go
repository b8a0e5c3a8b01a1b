package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"quiz-assessment-service/internal/app"
)

// Services are the use cases the HTTP layer exposes.
type Services struct {
	Auth      *app.AuthService
	Questions *app.QuestionService
	Quiz      *app.QuizService
	Feed      *app.ScoreFeed
}

// NewRouter mounts the REST API under /api and the score feed under /ws.
func NewRouter(svc Services, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	authH := &authHandler{auth: svc.Auth}
	questionH := &questionHandler{questions: svc.Questions}
	quizH := &quizHandler{quiz: svc.Quiz}
	wsH := NewWSHandler(svc.Auth, svc.Feed)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", authH.signup)
		r.Post("/auth/login", authH.login)

		r.Group(func(r chi.Router) {
			r.Use(requireSession(svc.Auth))

			r.Post("/auth/logout", authH.logout)
			r.Get("/auth/me", authH.me)

			r.Route("/questions", func(r chi.Router) {
				r.Get("/", questionH.list)
				r.Post("/", questionH.create)
				r.Get("/{id}", questionH.get)
				r.Put("/{id}", questionH.update)
				r.Delete("/{id}", questionH.delete)
			})

			r.Get("/quiz/start", quizH.start)
			r.Post("/quiz/start", quizH.start)
			r.Post("/quiz/submit", quizH.submit)

			r.Get("/scores", quizH.scores)
			r.Get("/scores/{attemptID}", quizH.result)
		})
	})

	r.Get("/ws/scores", wsH.ServeWS)
	return r
}
