package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/repository"
)

// RequestService handles wanted-item request operations.
type RequestService struct {
	requestRepo repository.RequestRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	clock       Clock
	logger      zerolog.Logger
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requestRepo repository.RequestRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	clock Clock,
	logger zerolog.Logger,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		clock:       clock,
		logger:      logger.With().Str("service", "request").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// CreateRequestInput contains the data needed to post a request.
type CreateRequestInput struct {
	RequestorID int64
	Description string
}

// =============================================================================
// Service Methods
// =============================================================================

// CreateRequest posts a new wanted-item request.
func (s *RequestService) CreateRequest(ctx context.Context, input CreateRequestInput) (*domain.Request, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrInvalidDescription
	}

	requestor, err := s.requireUser(ctx, input.RequestorID)
	if err != nil {
		return nil, err
	}

	request := &domain.Request{
		Description: input.Description,
		Requestor:   requestor,
		Created:     s.clock.Now(),
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		s.logger.Error().Err(err).Int64("requestor_id", requestor.ID).Msg("failed to create request")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("request_id", request.ID).
		Int64("requestor_id", requestor.ID).
		Msg("request created")

	return request, nil
}

// ListOwnRequests returns all requests posted by the caller, each
// with the items offered in response.
func (s *RequestService) ListOwnRequests(ctx context.Context, userID int64) ([]*domain.Request, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.ListByRequestor(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("requestor_id", userID).Msg("failed to list requests")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := s.attachItems(ctx, requests); err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*domain.Request{}
	}
	return requests, nil
}

// ListOtherRequests returns a page of requests posted by other users,
// each with the items offered in response. The caller's own requests
// are excluded after paging.
func (s *RequestService) ListOtherRequests(ctx context.Context, userID int64, page repository.Page) ([]*domain.Request, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	all, err := s.requestRepo.List(ctx, page)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list requests")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	requests := make([]*domain.Request, 0, len(all))
	for _, r := range all {
		if r.RequestorID() != userID {
			requests = append(requests, r)
		}
	}

	if err := s.attachItems(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// GetRequest retrieves a request with the items offered in response.
// Any existing user may view any request.
func (s *RequestService) GetRequest(ctx context.Context, requestID, callerID int64) (*domain.Request, error) {
	if _, err := s.requireUser(ctx, callerID); err != nil {
		return nil, err
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		s.logger.Error().Err(err).Int64("request_id", requestID).Msg("failed to get request")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := s.attachItems(ctx, []*domain.Request{request}); err != nil {
		return nil, err
	}
	return request, nil
}

// =============================================================================
// Helpers
// =============================================================================

// attachItems loads the items offered in response to each request.
func (s *RequestService) attachItems(ctx context.Context, requests []*domain.Request) error {
	for _, r := range requests {
		items, err := s.itemRepo.ListByRequestID(ctx, r.ID)
		if err != nil {
			s.logger.Error().Err(err).Int64("request_id", r.ID).Msg("failed to list items by request")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		if items == nil {
			items = []*domain.Item{}
		}
		r.Items = items
	}
	return nil
}

func (s *RequestService) requireUser(ctx context.Context, userID int64) (*domain.User, error) {
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
