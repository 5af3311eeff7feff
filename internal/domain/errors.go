package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrInvalidInput indicates that the input data is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoIdentifier indicates that neither record carries a recognized identifier.
	ErrNoIdentifier = errors.New("no identifier")

	// ErrInvalidMatrix indicates a cost matrix that is ragged or contains NaN.
	ErrInvalidMatrix = errors.New("invalid cost matrix")
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// StageError reports a failure raised by a caller-supplied distance or
// normalization function while the engine was evaluating a record.
// RightIndex is -1 when the failing call involved only the left record,
// LeftIndex is -1 for the symmetric case.
type StageError struct {
	Stage      string
	LeftIndex  int
	RightIndex int
	Cause      error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s (left=%d, right=%d): %v", e.Stage, e.LeftIndex, e.RightIndex, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StageError) Unwrap() error {
	return e.Cause
}

// ContractError is the panic value raised when a caller violates a
// precondition that cannot be routed around at runtime.
type ContractError struct {
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: contract violated: %s", e.Op, e.Message)
}

// Unwrap returns the underlying sentinel error.
func (e *ContractError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewStageError creates a new StageError.
func NewStageError(stage string, leftIndex, rightIndex int, cause error) *StageError {
	return &StageError{
		Stage:      stage,
		LeftIndex:  leftIndex,
		RightIndex: rightIndex,
		Cause:      cause,
	}
}
