package domain

import (
	"fmt"
	"strings"
	"time"
)

// BookingStatus is the approval status of a booking.
type BookingStatus string

// Booking status values.
//
// WAITING is the initial status. The item's owner moves a booking to
// APPROVED or REJECTED. Re-approving an APPROVED booking is an error;
// rejecting is allowed from any status. CANCELED is declared for
// completeness but no operation currently enters it.
const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"
)

// Booking represents a time-ranged reservation of an item by a user.
type Booking struct {
	// ID is the unique identifier for the booking (auto-generated).
	ID int64 `json:"id"`

	// Start is the beginning of the requested rental period.
	Start time.Time `json:"start"`

	// End is the end of the requested rental period. Always strictly
	// after Start.
	End time.Time `json:"end"`

	// Status is the current approval status.
	Status BookingStatus `json:"status"`

	// Item is the booked item, materialized for responses.
	Item *Item `json:"item"`

	// Booker is the user who placed the booking, materialized for
	// responses.
	Booker *User `json:"booker"`
}

// ItemID returns the id of the booked item.
func (b *Booking) ItemID() int64 {
	if b.Item == nil {
		return 0
	}
	return b.Item.ID
}

// BookerID returns the id of the booking user.
func (b *Booking) BookerID() int64 {
	if b.Booker == nil {
		return 0
	}
	return b.Booker.ID
}

// StateFilter selects which bookings a listing query returns.
type StateFilter string

// State filter values accepted by the booking listing endpoints.
// ALL, CURRENT, PAST and FUTURE are evaluated against "now" at call
// time; WAITING and REJECTED match the bookings' status literally.
const (
	FilterAll      StateFilter = "ALL"
	FilterCurrent  StateFilter = "CURRENT"
	FilterPast     StateFilter = "PAST"
	FilterFuture   StateFilter = "FUTURE"
	FilterWaiting  StateFilter = "WAITING"
	FilterRejected StateFilter = "REJECTED"
)

// UnknownStateError indicates an unrecognized state filter value.
type UnknownStateError struct {
	// Value is the raw value as supplied by the caller.
	Value string
}

// Error implements the error interface. The message deliberately
// carries the literal offending value.
func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("Unknown state: %s", e.Value)
}

// ParseStateFilter parses a state filter case-insensitively.
// An empty value defaults to ALL.
func ParseStateFilter(s string) (StateFilter, error) {
	if s == "" {
		return FilterAll, nil
	}
	switch f := StateFilter(strings.ToUpper(s)); f {
	case FilterAll, FilterCurrent, FilterPast, FilterFuture, FilterWaiting, FilterRejected:
		return f, nil
	default:
		return "", &UnknownStateError{Value: s}
	}
}
