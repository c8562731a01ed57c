package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/repository"
)

type requestFixture struct {
	svc   *RequestService
	users *MockUserRepository
	items *MockItemRepository
	now   time.Time
}

func newRequestFixture() *requestFixture {
	users := NewMockUserRepository()
	items := NewMockItemRepository()
	requests := NewMockRequestRepository()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	return &requestFixture{
		svc:   NewRequestService(requests, items, users, fixedClock{now: now}, zerolog.Nop()),
		users: users,
		items: items,
		now:   now,
	}
}

func (f *requestFixture) addUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	user := domain.NewUser(name, email)
	if err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestCreateRequest(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()
	user := f.addUser(t, "Ann", "ann@example.com")

	request, err := f.svc.CreateRequest(ctx, CreateRequestInput{RequestorID: user.ID, Description: "need a drill"})
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}
	if request.ID == 0 {
		t.Error("expected request ID to be assigned")
	}
	if !request.Created.Equal(f.now) {
		t.Errorf("expected created %v, got %v", f.now, request.Created)
	}
	if request.RequestorID() != user.ID {
		t.Errorf("expected requestor %d, got %d", user.ID, request.RequestorID())
	}
}

func TestCreateRequestValidation(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()
	user := f.addUser(t, "Ann", "ann@example.com")

	if _, err := f.svc.CreateRequest(ctx, CreateRequestInput{RequestorID: user.ID, Description: " "}); !errors.Is(err, ErrInvalidDescription) {
		t.Errorf("expected ErrInvalidDescription, got %v", err)
	}
	if _, err := f.svc.CreateRequest(ctx, CreateRequestInput{RequestorID: 404, Description: "need a drill"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListOwnRequestsWithItems(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()
	requestor := f.addUser(t, "Ann", "ann@example.com")
	owner := f.addUser(t, "Bob", "bob@example.com")

	request, err := f.svc.CreateRequest(ctx, CreateRequestInput{RequestorID: requestor.ID, Description: "need a drill"})
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	// An item offered in response to the request.
	item := &domain.Item{
		Name: "Drill", Description: "cordless", Available: true,
		OwnerID: owner.ID, RequestID: &request.ID,
	}
	if err := f.items.Create(ctx, item); err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}

	requests, err := f.svc.ListOwnRequests(ctx, requestor.ID)
	if err != nil {
		t.Fatalf("ListOwnRequests failed: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	if len(requests[0].Items) != 1 || requests[0].Items[0].ID != item.ID {
		t.Errorf("expected offered item attached, got %+v", requests[0].Items)
	}
}

func TestListOtherRequestsExcludesOwn(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()
	ann := f.addUser(t, "Ann", "ann@example.com")
	bob := f.addUser(t, "Bob", "bob@example.com")

	if _, err := f.svc.CreateRequest(ctx, CreateRequestInput{RequestorID: ann.ID, Description: "need a drill"}); err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}
	if _, err := f.svc.CreateRequest(ctx, CreateRequestInput{RequestorID: bob.ID, Description: "need a ladder"}); err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	requests, err := f.svc.ListOtherRequests(ctx, ann.ID, repository.NewPage(0, 20))
	if err != nil {
		t.Fatalf("ListOtherRequests failed: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	if requests[0].RequestorID() != bob.ID {
		t.Errorf("expected only other users' requests, got requestor %d", requests[0].RequestorID())
	}
}

func TestGetRequest(t *testing.T) {
	f := newRequestFixture()
	ctx := context.Background()
	ann := f.addUser(t, "Ann", "ann@example.com")
	bob := f.addUser(t, "Bob", "bob@example.com")

	request, err := f.svc.CreateRequest(ctx, CreateRequestInput{RequestorID: ann.ID, Description: "need a drill"})
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	// Any existing user may view any request.
	got, err := f.svc.GetRequest(ctx, request.ID, bob.ID)
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if got.ID != request.ID {
		t.Errorf("expected request %d, got %d", request.ID, got.ID)
	}

	if _, err := f.svc.GetRequest(ctx, 404, ann.ID); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
	if _, err := f.svc.GetRequest(ctx, request.ID, 404); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
