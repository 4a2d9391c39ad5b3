package util

import "errors"

var (
	ErrOrgNotFound        = errors.New("invalid organization code")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrValidation         = errors.New("validation failed")
	ErrAlreadyAttempted   = errors.New("you have already attempted this exam. Re-attempt is not allowed")
	ErrNoQuestions        = errors.New("no questions available for this exam or exam is locked")
	ErrExamNotStarted     = errors.New("exam not started")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrTimingNotFound     = errors.New("timing not found")
)

// ValidationError carries the message shown inline on a form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
