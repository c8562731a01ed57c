package domain

import "errors"

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists indicates another user has the same email.
	ErrEmailAlreadyExists = errors.New("email already in use")

	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemUnavailable indicates the item cannot be booked right now.
	ErrItemUnavailable = errors.New("item is not available for booking")

	// ErrBookingNotFound indicates the requested booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidDateRange indicates the booking period is malformed:
	// start must strictly precede end.
	ErrInvalidDateRange = errors.New("booking start must be before its end")

	// ErrAlreadyApproved indicates an attempt to approve a booking that
	// is already approved.
	ErrAlreadyApproved = errors.New("booking has already been approved")

	// ErrRequestNotFound indicates the requested item request does not exist.
	ErrRequestNotFound = errors.New("request not found")

	// ErrNotBooked indicates a comment attempt by a user with no
	// completed booking of the item.
	ErrNotBooked = errors.New("user has not completed a booking of this item")

	// ErrAccessDenied indicates the caller may not act on the entity.
	// The HTTP boundary reports it as not-found so that unauthorized
	// callers cannot confirm the entity exists.
	ErrAccessDenied = errors.New("access denied")
)
