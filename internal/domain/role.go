package domain

import "fmt"

// Role is the authorization level attached to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Action is an operation gated by role.
type Action int

const (
	ActionManageQuestions Action = iota
	ActionTakeQuiz
	ActionViewScores
)

func (a Action) String() string {
	switch a {
	case ActionManageQuestions:
		return "manage questions"
	case ActionTakeQuiz:
		return "take quiz"
	case ActionViewScores:
		return "view scores"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseRole converts a stored or claimed role name into a Role.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleUser, RoleAdmin:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Permits reports whether the role may perform the action. Unknown roles are denied.
func (r Role) Permits(a Action) bool {
	switch r {
	case RoleAdmin:
		switch a {
		case ActionManageQuestions, ActionTakeQuiz, ActionViewScores:
			return true
		}
		return false
	case RoleUser:
		switch a {
		case ActionTakeQuiz, ActionViewScores:
			return true
		case ActionManageQuestions:
			return false
		}
		return false
	default:
		return false
	}
}
