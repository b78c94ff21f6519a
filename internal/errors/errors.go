package errors

import (
	"errors"
	"fmt"
)

// Base error types
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInternalError     = errors.New("internal error")
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeTransition ErrorType = "transition"
	ErrorTypeInternal   ErrorType = "internal"
)

// DomainError is a structured error for rejected operations.
type DomainError struct {
	Type  ErrorType
	Op    string // Operation that failed (e.g., "select_goal", "load_config")
	Field string // Offending field or identifier, if any
	Err   error  // Underlying error
}

func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface
func (e *DomainError) Is(target error) bool {
	if target == nil {
		return false
	}

	switch target {
	case ErrNotFound:
		return e.Type == ErrorTypeNotFound
	case ErrInvalidInput:
		return e.Type == ErrorTypeValidation
	case ErrInvalidTransition:
		return e.Type == ErrorTypeTransition
	}

	return errors.Is(e.Err, target)
}

// NewDomainError creates a new DomainError
func NewDomainError(errorType ErrorType, op string, err error) *DomainError {
	return &DomainError{
		Type: errorType,
		Op:   op,
		Err:  err,
	}
}

// WithField records the offending field or identifier.
func (e *DomainError) WithField(field string) *DomainError {
	e.Field = field
	return e
}

// Helper functions

// WrapValidation wraps a validation failure with context
func WrapValidation(op, field string, err error) error {
	return NewDomainError(ErrorTypeValidation, op, err).WithField(field)
}

// WrapTransition wraps a rejected state transition with context
func WrapTransition(op, field string, err error) error {
	return NewDomainError(ErrorTypeTransition, op, err).WithField(field)
}

// WrapNotFound wraps a lookup miss with context
func WrapNotFound(op, field string, err error) error {
	return NewDomainError(ErrorTypeNotFound, op, err).WithField(field)
}

// IsTransitionError reports whether err is a rejected state transition.
func IsTransitionError(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// IsValidationError reports whether err is an input validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// ErrorTypeOf returns the category of err, or ErrorTypeInternal when err is
// not a DomainError.
func ErrorTypeOf(err error) ErrorType {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Type
	}
	return ErrorTypeInternal
}
