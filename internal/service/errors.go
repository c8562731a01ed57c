// Package service provides business logic services for ShareIt.
package service

import "errors"

// Common service errors.
var (
	// Validation errors
	ErrInvalidName        = errors.New("invalid name: must not be blank")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidDescription = errors.New("invalid description: must not be blank")
	ErrInvalidText        = errors.New("invalid text: must not be blank")
	ErrAvailableRequired  = errors.New("available flag is required")

	// ErrLockUnavailable indicates a concurrent operation holds the
	// lock and the retry budget ran out.
	ErrLockUnavailable = errors.New("operation is locked by a concurrent request")

	// General errors
	ErrInternalError = errors.New("internal server error")
)
