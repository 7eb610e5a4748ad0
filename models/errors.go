package models

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrSelfAction         = errors.New("cannot perform this action on yourself")
	ErrAlreadyChasing     = errors.New("already chasing this user")
	ErrRequestPending     = errors.New("chase request already pending")
	ErrEmailInUse         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyApplied     = errors.New("already applied to this job")
	ErrInvalidInput       = errors.New("invalid input")
)

// ValidationError carries a user-facing message and matches ErrInvalidInput.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(msg string) error { return &ValidationError{Msg: msg} }
