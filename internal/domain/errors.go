package domain

import "errors"

var (
	// ErrQuestionNotFound indicates the question id does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAttemptNotFound is returned when a quiz attempt does not exist or belongs to someone else.
	ErrAttemptNotFound = errors.New("quiz attempt not found")
	// ErrAttemptAlreadyGraded is returned on a second submission for the same attempt.
	ErrAttemptAlreadyGraded = errors.New("quiz attempt already graded")
	// ErrUserNotFound indicates the user could not be loaded.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when registering a username that is already in use.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken is returned when registering an email that is already in use, ignoring case.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthorized means the request carries no usable credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the caller's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")
)
