// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound indicates a lookup by ID missed.
	ErrNotFound = errors.New("not found")
	// ErrHasSubcategories blocks deletion of a category that still has children.
	ErrHasSubcategories = errors.New("category has subcategories")
	// ErrInvalidConfig indicates a bad configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationCode identifies which rule a draft or transaction violated.
type ValidationCode string

// Validation failure codes, in the order the guided entry checks them.
const (
	CodeInvalidAmount      ValidationCode = "invalid_amount"
	CodeMissingAccount     ValidationCode = "missing_account"
	CodeMissingDestination ValidationCode = "missing_destination"
	CodeSameAccount        ValidationCode = "same_account"
	CodeMissingCategory    ValidationCode = "missing_category"
	CodeMissingSubcategory ValidationCode = "missing_subcategory"
	CodeInvalidCategory    ValidationCode = "invalid_category"
	CodeInvalidType        ValidationCode = "invalid_type"
)

// ValidationError is a recoverable rule violation surfaced to the caller
// before any store mutation happens.
type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates a validation error with the given code.
func NewValidationError(code ValidationCode, format string, args ...any) error {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsValidation extracts a ValidationError from err, if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
