package teacher

import (
	"errors"
	"fmt"
)

var (
	ErrTeacherNotFound     = errors.New("teacher not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrEmployeeNumberTaken = errors.New("employee number already exists")
)

// ValidationError rejects a submission before any write. Field is the JSON
// name of the offending field, or empty for general errors.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("teacher %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrTeacherNotFound
}

// ConflictError reports a uniqueness violation, whether caught by the
// pre-check or by the storage constraint.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return "Employee number already exists."
}

func (e *ConflictError) Unwrap() error {
	return ErrEmployeeNumberTaken
}
