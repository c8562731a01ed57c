package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/repository"
)

// newTestDB opens a migrated database in a per-test temp directory.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	db, err := NewDB(ctx, DefaultConfig(filepath.Join(t.TempDir(), "test.db")), zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, repos *repository.Repositories, name, email string) *domain.User {
	t.Helper()
	user := domain.NewUser(name, email)
	if err := repos.User.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedItem(t *testing.T, repos *repository.Repositories, owner *domain.User, name string) *domain.Item {
	t.Helper()
	item := &domain.Item{Name: name, Description: name + " description", Available: true, OwnerID: owner.ID}
	if err := repos.Item.Create(context.Background(), item); err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}
	return item
}

func seedBooking(t *testing.T, repos *repository.Repositories, item *domain.Item, booker *domain.User, start, end time.Time, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	booking := &domain.Booking{Start: start, End: end, Status: status, Item: item, Booker: booker}
	if err := repos.Booking.Create(context.Background(), booking); err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
	return booking
}

func TestBookingRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	owner := seedUser(t, repos, "Ann", "ann@example.com")
	booker := seedUser(t, repos, "Bob", "bob@example.com")
	item := seedItem(t, repos, owner, "Drill")

	// Timestamps are stored at second precision.
	start := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 2, 10, 0, 0, 0, time.UTC)

	created := seedBooking(t, repos, item, booker, start, end, domain.StatusWaiting)
	if created.ID == 0 {
		t.Fatal("expected booking ID to be assigned")
	}

	got, err := repos.Booking.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.Start.Equal(start) || !got.End.Equal(end) {
		t.Errorf("unexpected period: %v - %v", got.Start, got.End)
	}
	if got.Status != domain.StatusWaiting {
		t.Errorf("expected WAITING, got %s", got.Status)
	}
	if got.Item == nil || got.Item.Name != "Drill" {
		t.Errorf("expected item materialized, got %+v", got.Item)
	}
	if got.Booker == nil || got.Booker.Email != "bob@example.com" {
		t.Errorf("expected booker materialized, got %+v", got.Booker)
	}

	if err := repos.Booking.UpdateStatus(ctx, created.ID, domain.StatusApproved); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	got, err = repos.Booking.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != domain.StatusApproved {
		t.Errorf("expected APPROVED, got %s", got.Status)
	}
}

func TestBookingGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db)

	if _, err := repos.Booking.GetByID(context.Background(), 404); err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingStateFilters(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	owner := seedUser(t, repos, "Ann", "ann@example.com")
	booker := seedUser(t, repos, "Bob", "bob@example.com")
	item := seedItem(t, repos, owner, "Drill")

	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

	past := seedBooking(t, repos, item, booker,
		now.Add(-48*time.Hour), now.Add(-24*time.Hour), domain.StatusApproved)
	current := seedBooking(t, repos, item, booker,
		now.Add(-time.Hour), now.Add(time.Hour), domain.StatusApproved)
	future := seedBooking(t, repos, item, booker,
		now.Add(24*time.Hour), now.Add(48*time.Hour), domain.StatusWaiting)
	rejected := seedBooking(t, repos, item, booker,
		now.Add(72*time.Hour), now.Add(96*time.Hour), domain.StatusRejected)

	page := repository.Page{Offset: 0, Limit: 20}

	tests := []struct {
		filter  domain.StateFilter
		wantIDs []int64
	}{
		// Newest start first in every listing.
		{domain.FilterAll, []int64{rejected.ID, future.ID, current.ID, past.ID}},
		{domain.FilterCurrent, []int64{current.ID}},
		{domain.FilterPast, []int64{past.ID}},
		{domain.FilterFuture, []int64{rejected.ID, future.ID}},
		{domain.FilterWaiting, []int64{future.ID}},
		{domain.FilterRejected, []int64{rejected.ID}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			q := repository.BookingQuery{Filter: tt.filter, Now: now, Page: page}

			for name, list := range map[string]func() ([]*domain.Booking, error){
				"booker": func() ([]*domain.Booking, error) { return repos.Booking.ListByBooker(ctx, booker.ID, q) },
				"owner":  func() ([]*domain.Booking, error) { return repos.Booking.ListByOwner(ctx, owner.ID, q) },
			} {
				got, err := list()
				if err != nil {
					t.Fatalf("%s listing failed: %v", name, err)
				}
				if len(got) != len(tt.wantIDs) {
					t.Fatalf("%s listing: expected %d bookings, got %d", name, len(tt.wantIDs), len(got))
				}
				for i, want := range tt.wantIDs {
					if got[i].ID != want {
						t.Errorf("%s listing[%d]: expected booking %d, got %d", name, i, want, got[i].ID)
					}
				}
			}
		})
	}
}

func TestBookingCurrentFilterInclusiveBounds(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	owner := seedUser(t, repos, "Ann", "ann@example.com")
	booker := seedUser(t, repos, "Bob", "bob@example.com")
	item := seedItem(t, repos, owner, "Drill")

	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

	startsNow := seedBooking(t, repos, item, booker, now, now.Add(time.Hour), domain.StatusApproved)
	endsNow := seedBooking(t, repos, item, booker, now.Add(-time.Hour), now, domain.StatusApproved)

	got, err := repos.Booking.ListByBooker(ctx, booker.ID, repository.BookingQuery{
		Filter: domain.FilterCurrent,
		Now:    now,
		Page:   repository.Page{Offset: 0, Limit: 20},
	})
	if err != nil {
		t.Fatalf("ListByBooker failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both boundary bookings, got %d", len(got))
	}
	if got[0].ID != startsNow.ID || got[1].ID != endsNow.ID {
		t.Errorf("unexpected ordering: %d, %d", got[0].ID, got[1].ID)
	}
}

func TestBookingListByItemAndPast(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	owner := seedUser(t, repos, "Ann", "ann@example.com")
	booker := seedUser(t, repos, "Bob", "bob@example.com")
	item := seedItem(t, repos, owner, "Drill")
	other := seedItem(t, repos, owner, "Saw")

	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

	finished := seedBooking(t, repos, item, booker,
		now.Add(-48*time.Hour), now.Add(-24*time.Hour), domain.StatusApproved)
	upcoming := seedBooking(t, repos, item, booker,
		now.Add(24*time.Hour), now.Add(48*time.Hour), domain.StatusApproved)
	seedBooking(t, repos, other, booker,
		now.Add(-10*time.Hour), now.Add(-5*time.Hour), domain.StatusApproved)

	// ListByItem: item's bookings only, start ascending.
	byItem, err := repos.Booking.ListByItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("ListByItem failed: %v", err)
	}
	if len(byItem) != 2 || byItem[0].ID != finished.ID || byItem[1].ID != upcoming.ID {
		t.Errorf("unexpected ListByItem result: %+v", byItem)
	}

	// ListPastByBooker: ended strictly before now, both items.
	pastOnes, err := repos.Booking.ListPastByBooker(ctx, booker.ID, now)
	if err != nil {
		t.Fatalf("ListPastByBooker failed: %v", err)
	}
	if len(pastOnes) != 2 {
		t.Errorf("expected 2 past bookings, got %d", len(pastOnes))
	}
	for _, b := range pastOnes {
		if !b.End.Before(now) {
			t.Errorf("booking %d has not ended before now", b.ID)
		}
	}
}

func TestBookingCorruptTimestampFailsScan(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	owner := seedUser(t, repos, "Ann", "ann@example.com")
	booker := seedUser(t, repos, "Bob", "bob@example.com")
	item := seedItem(t, repos, owner, "Drill")

	// Bypass the repository to plant a row the formatter never writes.
	result, err := db.ExecContext(ctx,
		`INSERT INTO bookings (item_id, booker_id, start_date, end_date, status)
		 VALUES (?, ?, ?, ?, ?)`,
		item.ID, booker.ID, "not-a-timestamp", "2026-07-02T10:00:00Z", "WAITING",
	)
	if err != nil {
		t.Fatalf("failed to insert corrupt row: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to get inserted id: %v", err)
	}

	_, err = repos.Booking.GetByID(ctx, id)
	if err == nil {
		t.Fatal("expected scan error for corrupt timestamp")
	}
	if errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("corrupt row must not read as not found, got %v", err)
	}
}

func TestUserEmailUnique(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	seedUser(t, repos, "Ann", "ann@example.com")

	dup := domain.NewUser("Another Ann", "ann@example.com")
	if err := repos.User.Create(ctx, dup); err != domain.ErrEmailAlreadyExists {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestItemSearch(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	owner := seedUser(t, repos, "Ann", "ann@example.com")

	items := []*domain.Item{
		{Name: "Power Drill", Description: "cordless", Available: true, OwnerID: owner.ID},
		{Name: "Saw", Description: "includes DRILL bits", Available: true, OwnerID: owner.ID},
		{Name: "Broken drill", Description: "parts only", Available: false, OwnerID: owner.ID},
	}
	for _, it := range items {
		if err := repos.Item.Create(ctx, it); err != nil {
			t.Fatalf("failed to seed item: %v", err)
		}
	}

	got, err := repos.Item.Search(ctx, "drill", repository.Page{Offset: 0, Limit: 20})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	for _, it := range got {
		if !it.Available {
			t.Errorf("unavailable item %d returned", it.ID)
		}
	}
}
