// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidInput      = errors.New("invalid input")
	ErrMalformedRow      = errors.New("malformed row")

	// Source errors.
	ErrSourceUnreadable = errors.New("source file unreadable")
	ErrMissingColumn    = errors.New("missing column")

	// Query errors.
	ErrInvalidFilter    = errors.New("invalid filter")
	ErrUnknownDimension = errors.New("unknown grouping dimension")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
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

// RowError ties a row-level failure to its position in the source file.
type RowError struct {
	Err  error
	Line int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
