package domain

import (
	"fmt"
	"strings"
)

// ConstraintTypeParameter is the constraint type reported for every field violation.
const ConstraintTypeParameter = "PARAMETER"

// Violation describes a single rejected input field.
type Violation struct {
	ConstraintType string `json:"constraintType"`
	Path           string `json:"path"`
	Message        string `json:"message"`
	Value          string `json:"value"`
}

// ValidationError carries every violation found on an inbound representation.
type ValidationError struct {
	Violations []Violation
}

// NewValidationError creates a ValidationError from the given violations.
func NewValidationError(violations ...Violation) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Path, v.Message))
	}
	return fmt.Sprintf("validation failed: [%s]", strings.Join(parts, "; "))
}

// NotFoundError reports that a referenced resource does not exist.
type NotFoundError struct {
	ID string
}

// NewNotFoundError creates a NotFoundError for the given identifier.
func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Resource with id %q doesn't exist", e.ID)
}
