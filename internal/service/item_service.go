package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/repository"
)

// ItemService handles shared item operations.
type ItemService struct {
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	bookingRepo repository.BookingRepository
	commentRepo repository.CommentRepository
	requestRepo repository.RequestRepository
	clock       Clock
	logger      zerolog.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	bookingRepo repository.BookingRepository,
	commentRepo repository.CommentRepository,
	requestRepo repository.RequestRepository,
	clock Clock,
	logger zerolog.Logger,
) *ItemService {
	return &ItemService{
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		commentRepo: commentRepo,
		requestRepo: requestRepo,
		clock:       clock,
		logger:      logger.With().Str("service", "item").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// CreateItemInput contains the data needed to publish an item.
type CreateItemInput struct {
	OwnerID     int64
	Name        string
	Description string
	Available   *bool
	RequestID   *int64
}

// UpdateItemInput contains the data for a partial item update.
// Nil fields keep their current value.
type UpdateItemInput struct {
	ItemID   int64
	CallerID int64

	Name        *string
	Description *string
	Available   *bool
}

// ItemDetail is an item together with its comments and, for the
// owner, the adjacent approved bookings.
type ItemDetail struct {
	Item *domain.Item

	// LastBooking is the latest approved booking that started at or
	// before now. Only populated for the item's owner.
	LastBooking *domain.Booking

	// NextBooking is the earliest approved booking starting after now.
	// Only populated for the item's owner.
	NextBooking *domain.Booking

	Comments []*domain.Comment
}

// CreateCommentInput contains the data needed to comment on an item.
type CreateCommentInput struct {
	ItemID   int64
	AuthorID int64
	Text     string
}

// =============================================================================
// Service Methods
// =============================================================================

// CreateItem publishes a new item for sharing.
func (s *ItemService) CreateItem(ctx context.Context, input CreateItemInput) (*domain.Item, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidName
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrInvalidDescription
	}
	if input.Available == nil {
		return nil, ErrAvailableRequired
	}

	if _, err := s.requireUser(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	if input.RequestID != nil {
		if _, err := s.requestRepo.GetByID(ctx, *input.RequestID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, domain.ErrRequestNotFound
			}
			s.logger.Error().Err(err).Int64("request_id", *input.RequestID).Msg("failed to get request")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
	}

	item := &domain.Item{
		Name:        input.Name,
		Description: input.Description,
		Available:   *input.Available,
		OwnerID:     input.OwnerID,
		RequestID:   input.RequestID,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		s.logger.Error().Err(err).Int64("owner_id", input.OwnerID).Msg("failed to create item")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("item_id", item.ID).
		Int64("owner_id", item.OwnerID).
		Msg("item created")

	return item, nil
}

// UpdateItem applies a partial update to an item. Only the owner may
// update; anyone else gets an access error.
func (s *ItemService) UpdateItem(ctx context.Context, input UpdateItemInput) (*domain.Item, error) {
	item, err := s.getItem(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}

	if item.OwnerID != input.CallerID {
		return nil, domain.ErrAccessDenied
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidName
		}
		item.Name = *input.Name
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, ErrInvalidDescription
		}
		item.Description = *input.Description
	}
	if input.Available != nil {
		item.Available = *input.Available
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrItemNotFound
		}
		s.logger.Error().Err(err).Int64("item_id", item.ID).Msg("failed to update item")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Int64("item_id", item.ID).Msg("item updated")

	return item, nil
}

// GetItem retrieves an item with its comments. When the caller owns
// the item the last and next approved bookings are attached.
func (s *ItemService) GetItem(ctx context.Context, itemID, callerID int64) (*ItemDetail, error) {
	if _, err := s.requireUser(ctx, callerID); err != nil {
		return nil, err
	}

	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	return s.buildDetail(ctx, item, callerID)
}

// ListItems returns the owner's items with comments and adjacent
// bookings, ordered by ID. Comments for the whole listing come from a
// single owner-scoped query.
func (s *ItemService) ListItems(ctx context.Context, ownerID int64, page repository.Page) ([]*ItemDetail, error) {
	if _, err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByOwner(ctx, ownerID, page)
	if err != nil {
		s.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to list items")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	comments, err := s.commentRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to list comments")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	commentsByItem := make(map[int64][]*domain.Comment, len(items))
	for _, c := range comments {
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], c)
	}

	now := s.clock.Now()
	details := make([]*ItemDetail, 0, len(items))
	for _, item := range items {
		bookings, err := s.bookingRepo.ListByItem(ctx, item.ID)
		if err != nil {
			s.logger.Error().Err(err).Int64("item_id", item.ID).Msg("failed to list bookings")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}

		itemComments := commentsByItem[item.ID]
		if itemComments == nil {
			itemComments = []*domain.Comment{}
		}

		detail := &ItemDetail{
			Item:     item,
			Comments: itemComments,
		}
		detail.LastBooking, detail.NextBooking = adjacentBookings(bookings, now)
		details = append(details, detail)
	}
	return details, nil
}

// SearchItems returns available items whose name or description
// contains the text. A blank query yields an empty result.
func (s *ItemService) SearchItems(ctx context.Context, callerID int64, text string, page repository.Page) ([]*domain.Item, error) {
	if _, err := s.requireUser(ctx, callerID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return []*domain.Item{}, nil
	}

	items, err := s.itemRepo.Search(ctx, text, page)
	if err != nil {
		s.logger.Error().Err(err).Str("text", text).Msg("failed to search items")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if items == nil {
		items = []*domain.Item{}
	}
	return items, nil
}

// CreateComment adds a comment to an item. Only users with a booking
// of the item that has already ended may comment.
func (s *ItemService) CreateComment(ctx context.Context, input CreateCommentInput) (*domain.Comment, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, ErrInvalidText
	}

	author, err := s.requireUser(ctx, input.AuthorID)
	if err != nil {
		return nil, err
	}

	item, err := s.getItem(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	past, err := s.bookingRepo.ListPastByBooker(ctx, input.AuthorID, now)
	if err != nil {
		s.logger.Error().Err(err).Int64("author_id", input.AuthorID).Msg("failed to list past bookings")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	booked := false
	for _, b := range past {
		if b.ItemID() == item.ID {
			booked = true
			break
		}
	}
	if !booked {
		return nil, domain.ErrNotBooked
	}

	comment := &domain.Comment{
		Text:       input.Text,
		ItemID:     item.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Created:    now,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		s.logger.Error().Err(err).Int64("item_id", item.ID).Msg("failed to create comment")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("comment_id", comment.ID).
		Int64("item_id", item.ID).
		Int64("author_id", author.ID).
		Msg("comment created")

	return comment, nil
}

// =============================================================================
// Helpers
// =============================================================================

// buildDetail assembles an ItemDetail. Adjacent bookings are only
// visible to the item's owner.
func (s *ItemService) buildDetail(ctx context.Context, item *domain.Item, callerID int64) (*ItemDetail, error) {
	comments, err := s.commentRepo.ListByItem(ctx, item.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("item_id", item.ID).Msg("failed to list comments")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}

	detail := &ItemDetail{
		Item:     item,
		Comments: comments,
	}

	if item.OwnerID != callerID {
		return detail, nil
	}

	bookings, err := s.bookingRepo.ListByItem(ctx, item.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("item_id", item.ID).Msg("failed to list bookings")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	now := s.clock.Now()
	detail.LastBooking, detail.NextBooking = adjacentBookings(bookings, now)
	return detail, nil
}

// adjacentBookings picks, from bookings sorted by start ascending, the
// latest approved booking started strictly before now and the earliest
// approved booking starting strictly after now. A booking starting
// exactly now lands in neither slot.
func adjacentBookings(bookings []*domain.Booking, now time.Time) (last, next *domain.Booking) {
	for _, b := range bookings {
		if b.Status != domain.StatusApproved {
			continue
		}
		switch {
		case b.Start.Before(now):
			last = b
		case b.Start.After(now):
			if next == nil {
				next = b
			}
		}
	}
	return last, next
}

func (s *ItemService) getItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrItemNotFound
		}
		s.logger.Error().Err(err).Int64("item_id", itemID).Msg("failed to get item")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return item, nil
}

func (s *ItemService) requireUser(ctx context.Context, userID int64) (*domain.User, error) {
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
