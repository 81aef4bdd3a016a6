package service

import (
	"errors"
	"fmt"

	"tmsbot/internal/nl2sql"
)

// GenerationUnavailableDetail is shown to clients when the language model call itself failed.
const GenerationUnavailableDetail = "Failed to generate SQL: The language model request failed."

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is matches ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// GenerationError is returned when no SQL could be produced for a question.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "Failed to generate SQL: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Detail is the client-facing message. Only model answers are echoed; upstream
// call failures stay in the server log.
func (e *GenerationError) Detail() string {
	if errors.Is(e.Err, nl2sql.ErrCannotAnswer) || errors.Is(e.Err, nl2sql.ErrEmptyCompletion) {
		return e.Error()
	}
	return GenerationUnavailableDetail
}

// UnsafeQueryError is returned when generated SQL fails the read-only check.
type UnsafeQueryError struct {
	SQL    string
	Reason string
}

func (e *UnsafeQueryError) Error() string {
	return "Validation Failed: " + e.Reason
}

// ExecutionError is returned when the database rejects a validated query.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return "Database execution failed: " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
