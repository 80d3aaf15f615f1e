// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Store errors.
	ErrValidation  = errors.New("validation failed")
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrStorageFull = errors.New("storage capacity exceeded")
	ErrNotFound    = errors.New("not found")

	// Category bookkeeping errors.
	ErrCategoryInUse     = errors.New("category has referencing expenses")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrUnknownCategory   = errors.New("unknown category")

	// Interchange errors.
	ErrEmptyExport    = errors.New("nothing to export")
	ErrMissingColumns = errors.New("missing required columns")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
