package http

import (
	"net/http"
	"strings"

	"quiz-assessment-service/internal/app"
	"quiz-assessment-service/internal/auth"
	"quiz-assessment-service/internal/domain"
)

// requireSession resolves the bearer token into a session and attaches it to
// the request context. Role checks happen in the services.
func requireSession(authService *app.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := authService.Authenticate(r.Context(), bearerToken(r))
			if err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// sessionFrom returns the session placed by requireSession.
func sessionFrom(r *http.Request) (auth.Session, error) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		return auth.Session{}, domain.ErrUnauthorized
	}
	return session, nil
}
