package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/repository"
)

// fixedClock is a Clock pinned to a single instant.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// MockUserRepository is an in-memory repository.UserRepository.
type MockUserRepository struct {
	users  map[int64]*domain.User
	nextID int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[int64]*domain.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, exists := m.users[id]; exists {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.ID]; !exists {
		return repository.ErrNotFound
	}
	for _, u := range m.users {
		if u.ID != user.ID && u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if _, exists := m.users[id]; !exists {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// MockItemRepository is an in-memory repository.ItemRepository.
type MockItemRepository struct {
	items  map[int64]*domain.Item
	nextID int64
}

func NewMockItemRepository() *MockItemRepository {
	return &MockItemRepository{
		items:  make(map[int64]*domain.Item),
		nextID: 1,
	}
}

func (m *MockItemRepository) Create(ctx context.Context, item *domain.Item) error {
	item.ID = m.nextID
	m.nextID++
	m.items[item.ID] = item
	return nil
}

func (m *MockItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	if it, exists := m.items[id]; exists {
		return it, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockItemRepository) Update(ctx context.Context, item *domain.Item) error {
	if _, exists := m.items[item.ID]; !exists {
		return repository.ErrNotFound
	}
	m.items[item.ID] = item
	return nil
}

func (m *MockItemRepository) ListByOwner(ctx context.Context, ownerID int64, page repository.Page) ([]*domain.Item, error) {
	var items []*domain.Item
	for _, it := range m.items {
		if it.OwnerID == ownerID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return paginateItems(items, page), nil
}

func (m *MockItemRepository) Search(ctx context.Context, text string, page repository.Page) ([]*domain.Item, error) {
	needle := strings.ToLower(text)
	var items []*domain.Item
	for _, it := range m.items {
		if !it.Available {
			continue
		}
		if strings.Contains(strings.ToLower(it.Name), needle) ||
			strings.Contains(strings.ToLower(it.Description), needle) {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return paginateItems(items, page), nil
}

func (m *MockItemRepository) ListByRequestID(ctx context.Context, requestID int64) ([]*domain.Item, error) {
	var items []*domain.Item
	for _, it := range m.items {
		if it.RequestID != nil && *it.RequestID == requestID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func paginateItems(items []*domain.Item, page repository.Page) []*domain.Item {
	if page.Limit == 0 {
		return items
	}
	if page.Offset >= len(items) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end]
}

// MockBookingRepository is an in-memory repository.BookingRepository.
type MockBookingRepository struct {
	bookings map[int64]*domain.Booking
	nextID   int64
}

func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[int64]*domain.Booking),
		nextID:   1,
	}
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	booking.ID = m.nextID
	m.nextID++
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if b, exists := m.bookings[id]; exists {
		return b, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	b, exists := m.bookings[id]
	if !exists {
		return repository.ErrNotFound
	}
	b.Status = status
	return nil
}

func (m *MockBookingRepository) ListByBooker(ctx context.Context, bookerID int64, q repository.BookingQuery) ([]*domain.Booking, error) {
	return m.selectBookings(func(b *domain.Booking) bool { return b.BookerID() == bookerID }, q), nil
}

func (m *MockBookingRepository) ListByOwner(ctx context.Context, ownerID int64, q repository.BookingQuery) ([]*domain.Booking, error) {
	return m.selectBookings(func(b *domain.Booking) bool {
		return b.Item != nil && b.Item.OwnerID == ownerID
	}, q), nil
}

func (m *MockBookingRepository) ListByItem(ctx context.Context, itemID int64) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for _, b := range m.bookings {
		if b.ItemID() == itemID {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].Start.Before(bookings[j].Start) })
	return bookings, nil
}

func (m *MockBookingRepository) ListPastByBooker(ctx context.Context, bookerID int64, now time.Time) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for _, b := range m.bookings {
		if b.BookerID() == bookerID && b.End.Before(now) {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (m *MockBookingRepository) selectBookings(match func(*domain.Booking) bool, q repository.BookingQuery) []*domain.Booking {
	var bookings []*domain.Booking
	for _, b := range m.bookings {
		if match(b) && matchesFilter(b, q) {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].Start.After(bookings[j].Start) })
	if q.Page.Limit == 0 {
		return bookings
	}
	if q.Page.Offset >= len(bookings) {
		return nil
	}
	end := q.Page.Offset + q.Page.Limit
	if end > len(bookings) {
		end = len(bookings)
	}
	return bookings[q.Page.Offset:end]
}

func matchesFilter(b *domain.Booking, q repository.BookingQuery) bool {
	switch q.Filter {
	case domain.FilterCurrent:
		return !b.Start.After(q.Now) && !b.End.Before(q.Now)
	case domain.FilterPast:
		return b.End.Before(q.Now)
	case domain.FilterFuture:
		return b.Start.After(q.Now)
	case domain.FilterWaiting:
		return b.Status == domain.StatusWaiting
	case domain.FilterRejected:
		return b.Status == domain.StatusRejected
	default:
		return true
	}
}

// MockRequestRepository is an in-memory repository.RequestRepository.
type MockRequestRepository struct {
	requests map[int64]*domain.Request
	nextID   int64
}

func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[int64]*domain.Request),
		nextID:   1,
	}
}

func (m *MockRequestRepository) Create(ctx context.Context, request *domain.Request) error {
	request.ID = m.nextID
	m.nextID++
	m.requests[request.ID] = request
	return nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	if r, exists := m.requests[id]; exists {
		return r, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockRequestRepository) ListByRequestor(ctx context.Context, requestorID int64) ([]*domain.Request, error) {
	var requests []*domain.Request
	for _, r := range m.requests {
		if r.RequestorID() == requestorID {
			requests = append(requests, r)
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].Created.Before(requests[j].Created) })
	return requests, nil
}

func (m *MockRequestRepository) List(ctx context.Context, page repository.Page) ([]*domain.Request, error) {
	var requests []*domain.Request
	for _, r := range m.requests {
		requests = append(requests, r)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].Created.Before(requests[j].Created) })
	if page.Offset >= len(requests) {
		return nil, nil
	}
	end := page.Offset + page.Limit
	if end > len(requests) {
		end = len(requests)
	}
	return requests[page.Offset:end], nil
}

// MockCommentRepository is an in-memory repository.CommentRepository.
type MockCommentRepository struct {
	comments map[int64]*domain.Comment
	items    *MockItemRepository
	nextID   int64
}

func NewMockCommentRepository(items *MockItemRepository) *MockCommentRepository {
	return &MockCommentRepository{
		comments: make(map[int64]*domain.Comment),
		items:    items,
		nextID:   1,
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	comment.ID = m.nextID
	m.nextID++
	m.comments[comment.ID] = comment
	return nil
}

func (m *MockCommentRepository) ListByItem(ctx context.Context, itemID int64) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	for _, c := range m.comments {
		if c.ItemID == itemID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].Created.Before(comments[j].Created) })
	return comments, nil
}

func (m *MockCommentRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	for _, c := range m.comments {
		item, err := m.items.GetByID(ctx, c.ItemID)
		if err != nil {
			continue
		}
		if item.OwnerID == ownerID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].Created.Before(comments[j].Created) })
	return comments, nil
}

// Interface checks.
var (
	_ repository.UserRepository    = (*MockUserRepository)(nil)
	_ repository.ItemRepository    = (*MockItemRepository)(nil)
	_ repository.BookingRepository = (*MockBookingRepository)(nil)
	_ repository.RequestRepository = (*MockRequestRepository)(nil)
	_ repository.CommentRepository = (*MockCommentRepository)(nil)
)
