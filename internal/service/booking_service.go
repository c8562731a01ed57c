package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/lock"
	"github.com/shareit-project/shareit/internal/repository"
)

// Approval lock parameters. The TTL bounds how long a crashed holder
// can block the booking; retries cover short contention windows.
const (
	approveLockTTL        = 10 * time.Second
	approveLockRetries    = 3
	approveLockRetryDelay = 50 * time.Millisecond
)

// BookingService handles booking operations.
type BookingService struct {
	bookingRepo repository.BookingRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	locker      lock.Locker
	clock       Clock
	logger      zerolog.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	locker lock.Locker,
	clock Clock,
	logger zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		locker:      locker,
		clock:       clock,
		logger:      logger.With().Str("service", "booking").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// CreateBookingInput contains the data needed to place a booking.
type CreateBookingInput struct {
	BookerID int64
	ItemID   int64
	Start    time.Time
	End      time.Time
}

// ApproveBookingInput contains the data for an approval decision.
type ApproveBookingInput struct {
	BookingID int64
	CallerID  int64
	Approved  bool
}

// ListBookingsInput selects bookings for the state-filtered listings.
type ListBookingsInput struct {
	UserID int64

	// State is the raw state filter value. Empty means ALL.
	State string

	From int
	Size int
}

// =============================================================================
// Service Methods
// =============================================================================

// CreateBooking places a new booking in WAITING status.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	booker, err := s.requireUser(ctx, input.BookerID)
	if err != nil {
		return nil, err
	}

	if !input.Start.Before(input.End) {
		return nil, domain.ErrInvalidDateRange
	}

	item, err := s.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrItemNotFound
		}
		s.logger.Error().Err(err).Int64("item_id", input.ItemID).Msg("failed to get item")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if !item.Available {
		return nil, domain.ErrItemUnavailable
	}

	// Owners cannot book their own items. Reported as access denied so
	// the boundary renders it as not-found.
	if item.OwnerID == input.BookerID {
		return nil, domain.ErrAccessDenied
	}

	booking := &domain.Booking{
		Start:  input.Start,
		End:    input.End,
		Status: domain.StatusWaiting,
		Item:   item,
		Booker: booker,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		s.logger.Error().Err(err).Int64("item_id", item.ID).Msg("failed to create booking")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", item.ID).
		Int64("booker_id", booker.ID).
		Msg("booking created")

	return booking, nil
}

// ApproveBooking records the owner's approval decision. Concurrent
// decisions on the same booking are serialized through a lock so that
// exactly one approval can succeed.
func (s *BookingService) ApproveBooking(ctx context.Context, input ApproveBookingInput) (*domain.Booking, error) {
	key := lock.Keys.BookingApprove(input.BookingID)
	acquired, err := s.locker.AcquireWithRetry(ctx, key, approveLockTTL, approveLockRetries, approveLockRetryDelay)
	if err != nil {
		s.logger.Error().Err(err).Int64("booking_id", input.BookingID).Msg("failed to acquire approval lock")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if !acquired {
		return nil, ErrLockUnavailable
	}
	defer func() {
		if _, err := s.locker.Release(ctx, key); err != nil {
			s.logger.Warn().Err(err).Int64("booking_id", input.BookingID).Msg("failed to release approval lock")
		}
	}()

	booking, err := s.getBooking(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	// Only the item's owner decides. Anyone else, the booker included,
	// is told the booking does not exist.
	if booking.Item == nil || booking.Item.OwnerID != input.CallerID {
		return nil, domain.ErrAccessDenied
	}

	if input.Approved {
		if booking.Status == domain.StatusApproved {
			return nil, domain.ErrAlreadyApproved
		}
		booking.Status = domain.StatusApproved
	} else {
		booking.Status = domain.StatusRejected
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("failed to update booking status")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Str("status", string(booking.Status)).
		Msg("booking decided")

	return booking, nil
}

// GetBooking retrieves a booking. Only the booker and the item's
// owner may see it.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, callerID int64) (*domain.Booking, error) {
	if _, err := s.requireUser(ctx, callerID); err != nil {
		return nil, err
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.BookerID() != callerID && (booking.Item == nil || booking.Item.OwnerID != callerID) {
		return nil, domain.ErrAccessDenied
	}

	return booking, nil
}

// ListBookerBookings returns the caller's own bookings filtered by
// state, newest first.
func (s *BookingService) ListBookerBookings(ctx context.Context, input ListBookingsInput) ([]*domain.Booking, error) {
	q, err := s.buildQuery(ctx, input)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListByBooker(ctx, input.UserID, q)
	if err != nil {
		s.logger.Error().Err(err).Int64("booker_id", input.UserID).Msg("failed to list bookings by booker")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, nil
}

// ListOwnerBookings returns the bookings of the caller's items
// filtered by state, newest first.
func (s *BookingService) ListOwnerBookings(ctx context.Context, input ListBookingsInput) ([]*domain.Booking, error) {
	q, err := s.buildQuery(ctx, input)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListByOwner(ctx, input.UserID, q)
	if err != nil {
		s.logger.Error().Err(err).Int64("owner_id", input.UserID).Msg("failed to list bookings by owner")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, nil
}

// =============================================================================
// Helpers
// =============================================================================

// buildQuery validates the caller and the state filter and assembles
// the repository query.
func (s *BookingService) buildQuery(ctx context.Context, input ListBookingsInput) (repository.BookingQuery, error) {
	filter, err := domain.ParseStateFilter(input.State)
	if err != nil {
		return repository.BookingQuery{}, err
	}

	if _, err := s.requireUser(ctx, input.UserID); err != nil {
		return repository.BookingQuery{}, err
	}

	return repository.BookingQuery{
		Filter: filter,
		Now:    s.clock.Now(),
		Page:   repository.NewPage(input.From, input.Size),
	}, nil
}

func (s *BookingService) getBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		s.logger.Error().Err(err).Int64("booking_id", bookingID).Msg("failed to get booking")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return booking, nil
}

func (s *BookingService) requireUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return user, nil
}
