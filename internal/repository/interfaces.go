// Package repository defines data access interfaces for ShareIt.
// These interfaces abstract database operations, allowing for different
// implementations (SQLite, PostgreSQL, in-memory for testing) while
// keeping the service layer clean.
package repository

import (
	"context"
	"time"

	"github.com/shareit-project/shareit/internal/domain"
)

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user and populates its ID.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// Update updates an existing user.
	Update(ctx context.Context, user *domain.User) error

	// Delete deletes a user by ID.
	Delete(ctx context.Context, id int64) error

	// List returns all users ordered by ID.
	List(ctx context.Context) ([]*domain.User, error)

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// =============================================================================
// Item Repository
// =============================================================================

// ItemRepository defines the interface for item data access.
type ItemRepository interface {
	// Create creates a new item and populates its ID.
	Create(ctx context.Context, item *domain.Item) error

	// GetByID retrieves an item by ID.
	GetByID(ctx context.Context, id int64) (*domain.Item, error)

	// Update updates an existing item.
	Update(ctx context.Context, item *domain.Item) error

	// ListByOwner returns a page of the owner's items ordered by ID.
	ListByOwner(ctx context.Context, ownerID int64, page Page) ([]*domain.Item, error)

	// Search returns a page of available items whose name or description
	// contains the text, matched case-insensitively.
	Search(ctx context.Context, text string, page Page) ([]*domain.Item, error)

	// ListByRequestID returns the items that reference the given request.
	ListByRequestID(ctx context.Context, requestID int64) ([]*domain.Item, error)
}

// =============================================================================
// Booking Repository
// =============================================================================

// BookingQuery selects bookings for the state-filtered listings.
type BookingQuery struct {
	// Filter is the state filter to apply.
	Filter domain.StateFilter

	// Now is the evaluation instant for CURRENT, PAST and FUTURE.
	Now time.Time

	// Page is the slice of results to return.
	Page Page
}

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	// Create creates a new booking and populates its ID.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID with its item and booker.
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)

	// UpdateStatus persists a new status for the booking.
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error

	// ListByBooker returns the booker's bookings matching the query,
	// ordered by start descending.
	ListByBooker(ctx context.Context, bookerID int64, q BookingQuery) ([]*domain.Booking, error)

	// ListByOwner returns the bookings of the owner's items matching the
	// query, ordered by start descending.
	ListByOwner(ctx context.Context, ownerID int64, q BookingQuery) ([]*domain.Booking, error)

	// ListByItem returns all bookings of the item ordered by start
	// ascending. Used to derive an item's last and next approved booking.
	ListByItem(ctx context.Context, itemID int64) ([]*domain.Booking, error)

	// ListPastByBooker returns all of the booker's bookings that ended
	// strictly before now, unpaginated. Used for comment eligibility.
	ListPastByBooker(ctx context.Context, bookerID int64, now time.Time) ([]*domain.Booking, error)
}

// =============================================================================
// Request Repository
// =============================================================================

// RequestRepository defines the interface for item request data access.
type RequestRepository interface {
	// Create creates a new request and populates its ID.
	Create(ctx context.Context, request *domain.Request) error

	// GetByID retrieves a request by ID with its requestor.
	GetByID(ctx context.Context, id int64) (*domain.Request, error)

	// ListByRequestor returns the user's requests ordered by creation
	// time ascending.
	ListByRequestor(ctx context.Context, requestorID int64) ([]*domain.Request, error)

	// List returns a page of all requests ordered by creation time
	// ascending.
	List(ctx context.Context, page Page) ([]*domain.Request, error)
}

// =============================================================================
// Comment Repository
// =============================================================================

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	// Create creates a new comment and populates its ID.
	Create(ctx context.Context, comment *domain.Comment) error

	// ListByItem returns the item's comments ordered by creation time.
	ListByItem(ctx context.Context, itemID int64) ([]*domain.Comment, error)

	// ListByOwner returns all comments on items owned by the given user,
	// ordered by creation time.
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Comment, error)
}

// =============================================================================
// Pagination
// =============================================================================

// Page is an offset/limit window over a result set.
type Page struct {
	// Offset is the number of records to skip.
	Offset int

	// Limit is the maximum number of records to return.
	Limit int
}

// NewPage builds a Page from the boundary's from/size parameters.
// The offset is (from/size)*size with integer division, not from
// itself: listings page in whole size-sized blocks, and a from value
// inside a block snaps to that block's start.
func NewPage(from, size int) Page {
	return Page{
		Offset: (from / size) * size,
		Limit:  size,
	}
}
