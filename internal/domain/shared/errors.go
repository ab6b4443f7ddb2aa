package shared

import (
	"errors"
	"fmt"
)

// Error codes shared by every bounded context
const (
	CodeNotFound          = "NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeConflict          = "CONFLICT"
	CodeDependencyMissing = "DEPENDENCY_MISSING"
	CodeOptimisticLock    = "OPTIMISTIC_LOCK_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so that a contextual error
// built with NewDomainError matches the sentinel of its kind.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError(CodeNotFound, "Resource not found")
	ErrForbidden         = NewDomainError(CodeForbidden, "Operation not allowed")
	ErrValidationFailed  = NewDomainError(CodeValidationFailed, "Validation failed")
	ErrConflict          = NewDomainError(CodeConflict, "Resource already exists or was already processed")
	ErrDependencyMissing = NewDomainError(CodeDependencyMissing, "Required dependency is missing")
	ErrOptimisticLock    = NewDomainError(CodeOptimisticLock, "Resource was modified by another process")
)

func NewNotFoundError(resource string, id any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %v not found", resource, id))
}

func NewForbiddenError(message string) *DomainError {
	return NewDomainError(CodeForbidden, message)
}

func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidationFailed, message)
}

func NewConflictError(message string) *DomainError {
	return NewDomainError(CodeConflict, message)
}

func NewDependencyMissingError(message string) *DomainError {
	return NewDomainError(CodeDependencyMissing, message)
}

// ErrorCode extracts the domain code from err, or "" when err is not a domain error.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
