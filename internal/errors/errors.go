// Package errors provides the typed errors surfaced by price resolution.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeValidation indicates an invalid requirement, rejected before matching
	TypeValidation Type = "VALIDATION_ERROR"

	// TypeNoMatch indicates that no catalog entry satisfies a requirement
	TypeNoMatch Type = "NO_MATCH"

	// TypeBudget indicates a resource overflowing its budget ceiling
	TypeBudget Type = "BUDGET_OVERFLOW"

	// TypeIntegrity indicates an inconsistent catalog entry
	TypeIntegrity Type = "INTEGRITY_ERROR"

	// TypeNotFound indicates a missing usage, budget, quote or entry
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict indicates an operation refused because of existing references
	TypeConflict Type = "CONFLICT"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeParsing indicates a catalog or quote file that cannot be decoded
	TypeParsing Type = "PARSING_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Field returns the offending requirement field of a validation error
func (e *Error) Field() string {
	if f, ok := e.Context["field"].(string); ok {
		return f
	}
	return ""
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error, or any error it wraps, is of a specific type
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Validation creates a validation error naming the offending field
func Validation(field, message string) *Error {
	return New(TypeValidation, message).WithContext("field", field)
}

// Validationf creates a formatted validation error naming the offending field
func Validationf(field, format string, args ...interface{}) *Error {
	return Newf(TypeValidation, format, args...).WithContext("field", field)
}

// Integrity creates a catalog integrity error for an entry
func Integrity(entryID, message string) *Error {
	return New(TypeIntegrity, message).WithContext("entry", entryID)
}

// NoMatch creates a no-eligible-offer error
func NoMatch(category string) *Error {
	return Newf(TypeNoMatch, "no eligible %s offer", category).WithContext("category", category)
}

// BudgetOverflow creates an error flagging a resource over its budget ceiling
func BudgetOverflow(budget, resource string) *Error {
	return Newf(TypeBudget, "resource %s exceeds the initial cost ceiling of budget %s", resource, budget).
		WithContext("budget", budget).
		WithContext("resource", resource)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Conflict creates a conflict error
func Conflict(message string) *Error {
	return New(TypeConflict, message)
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
