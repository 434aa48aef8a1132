// Package errors provides centralized error definitions and error handling
// utilities for the specforge codebase. It defines domain-specific errors,
// semantic error types, error constructors with context wrapping, and error
// classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - PhaseError: errors raised while executing a workflow phase
//   - GeneratorError: errors from the external text-generation backend
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewPhaseError("plan generation failed", cause).WithPhase("plan")
//	err := errors.NewNotFoundError("artifact", "plan.md")
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrSourceMissing) { ... }
//
//	var phaseErr *errors.PhaseError
//	if errors.As(err, &phaseErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Artifact-related sentinel errors
var (
	// ErrSourceMissing indicates a mandatory source document (constitution or
	// spec) is absent from the base directory. This is always fatal.
	ErrSourceMissing = New("mandatory source document missing")
	// ErrArtifactNotFound indicates a named artifact does not exist in the store.
	ErrArtifactNotFound = New("artifact not found")
)

// Workflow-related sentinel errors
var (
	// ErrNoPendingApproval indicates no approval request with the given ID is
	// pending. Returned when a decision has already been consumed.
	ErrNoPendingApproval = New("no pending approval request")
	// ErrRunCancelled indicates the run was terminated by an approval rejection.
	ErrRunCancelled = New("run cancelled by user")
	// ErrRunInProgress indicates a runner operation that requires an idle runner.
	ErrRunInProgress = New("run already in progress")
	// ErrGenerationFailed indicates the generation backend returned an error.
	ErrGenerationFailed = New("generation failed")
)

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// PhaseError represents an error raised while executing a workflow phase.
//
// Example:
//
//	err := errors.NewPhaseError("failed to persist plan", cause).WithPhase("plan")
type PhaseError struct {
	message string
	cause   error
	Phase   string
	TaskID  string
}

// NewPhaseError creates a new PhaseError.
func NewPhaseError(message string, cause error) *PhaseError {
	return &PhaseError{message: message, cause: cause}
}

// WithPhase adds the phase name to the error context.
func (e *PhaseError) WithPhase(phase string) *PhaseError {
	e.Phase = phase
	return e
}

// WithTaskID adds a task item ID to the error context.
func (e *PhaseError) WithTaskID(id string) *PhaseError {
	e.TaskID = id
	return e
}

// Error returns the formatted error message.
func (e *PhaseError) Error() string {
	var parts []string
	if e.Phase != "" {
		parts = append(parts, fmt.Sprintf("phase=%s", e.Phase))
	}
	if e.TaskID != "" {
		parts = append(parts, fmt.Sprintf("task=%s", e.TaskID))
	}

	prefix := "phase error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("phase error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Unwrap returns the underlying error.
func (e *PhaseError) Unwrap() error { return e.cause }

// Is checks if this error matches the target.
func (e *PhaseError) Is(target error) bool {
	if _, ok := target.(*PhaseError); ok {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// GeneratorError represents a failure from the external generation backend.
//
// Example:
//
//	err := errors.NewGeneratorError("claude", cause)
type GeneratorError struct {
	Backend string
	cause   error
}

// NewGeneratorError creates a new GeneratorError.
func NewGeneratorError(backend string, cause error) *GeneratorError {
	return &GeneratorError{Backend: backend, cause: cause}
}

// Error returns the formatted error message.
func (e *GeneratorError) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("generator error [backend=%s]: %v", e.Backend, e.cause)
	}
	return fmt.Sprintf("generator error: %v", e.cause)
}

// Unwrap returns the underlying error.
func (e *GeneratorError) Unwrap() error { return e.cause }

// Is checks if this error matches the target.
func (e *GeneratorError) Is(target error) bool {
	if _, ok := target.(*GeneratorError); ok {
		return true
	}
	if errors.Is(target, ErrGenerationFailed) {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("artifact", "plan.md")
//	fmt.Println(err) // "artifact 'plan.md' not found"
type NotFoundError struct {
	ResourceType string
	ResourceID   string
	cause        error
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{ResourceType: resourceType, ResourceID: resourceID}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Unwrap returns the underlying error.
func (e *NotFoundError) Unwrap() error { return e.cause }

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if errors.Is(target, ErrArtifactNotFound) {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("tech stack cannot be empty").WithField("tech_stack")
type ValidationError struct {
	message string
	cause   error
	Field   string
	Value   any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{message: message}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error { return e.cause }

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to route pipeline")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to persist %s", name)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
