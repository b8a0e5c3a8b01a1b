package auth

import (
	"context"
	"time"

	"quiz-assessment-service/internal/domain"
)

// Identity is who a session belongs to.
type Identity struct {
	UserID   string      `json:"userId"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// Session is a verified bearer credential. It is created at login or signup,
// resolved from the token on every request and ends at logout or expiry.
type Session struct {
	TokenID   string    `json:"-"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Identity
}

// Can reports whether the session's role permits the action.
func (s Session) Can(a domain.Action) bool {
	return s.UserID != "" && s.Role.Permits(a)
}

type ctxKey struct{}

// WithSession attaches a session to a request context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFromContext returns the session attached by the auth middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
