package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/repository"
)

// bookingRepository implements repository.BookingRepository for SQLite.
type bookingRepository struct {
	db *DB
}

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(db *DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

// bookingSelect joins the booked item and the booker so a single query
// materializes the full booking.
const bookingSelect = `
	SELECT b.id, b.start_date, b.end_date, b.status,
	       i.id, i.name, i.description, i.available, i.owner_id, i.request_id,
	       u.id, u.name, u.email
	FROM bookings b
	JOIN items i ON i.id = b.item_id
	JOIN users u ON u.id = b.booker_id`

// Create creates a new booking.
func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (item_id, booker_id, start_date, end_date, status)
		 VALUES (?, ?, ?, ?, ?)`,
		booking.ItemID(), booking.BookerID(),
		formatTime(booking.Start), formatTime(booking.End),
		string(booking.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	booking.ID = id

	return nil
}

// GetByID retrieves a booking by ID with its item and booker.
func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id)
	booking, err := scanBooking(row)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking by ID: %w", err)
	}
	return booking, nil
}

// UpdateStatus persists a new status for the booking.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListByBooker returns the booker's bookings matching the query,
// ordered by start descending.
func (r *bookingRepository) ListByBooker(ctx context.Context, bookerID int64, q repository.BookingQuery) ([]*domain.Booking, error) {
	cond, condArgs := filterClause(q)

	args := append([]interface{}{bookerID}, condArgs...)
	args = append(args, q.Page.Limit, q.Page.Offset)

	rows, err := r.db.QueryContext(ctx,
		bookingSelect+` WHERE b.booker_id = ?`+cond+`
		 ORDER BY b.start_date DESC
		 LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by booker: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListByOwner returns the bookings of the owner's items matching the
// query, ordered by start descending.
func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int64, q repository.BookingQuery) ([]*domain.Booking, error) {
	cond, condArgs := filterClause(q)

	args := append([]interface{}{ownerID}, condArgs...)
	args = append(args, q.Page.Limit, q.Page.Offset)

	rows, err := r.db.QueryContext(ctx,
		bookingSelect+` WHERE i.owner_id = ?`+cond+`
		 ORDER BY b.start_date DESC
		 LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by owner: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListByItem returns all bookings of the item ordered by start ascending.
func (r *bookingRepository) ListByItem(ctx context.Context, itemID int64) ([]*domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		bookingSelect+` WHERE b.item_id = ? ORDER BY b.start_date`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by item: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListPastByBooker returns all of the booker's bookings that ended
// strictly before now.
func (r *bookingRepository) ListPastByBooker(ctx context.Context, bookerID int64, now time.Time) ([]*domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		bookingSelect+` WHERE b.booker_id = ? AND b.end_date < ? ORDER BY b.start_date DESC`,
		bookerID, formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list past bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// filterClause renders the state filter as an extra WHERE condition.
// CURRENT is inclusive at both ends of the interval.
func filterClause(q repository.BookingQuery) (string, []interface{}) {
	now := formatTime(q.Now)
	switch q.Filter {
	case domain.FilterCurrent:
		return ` AND b.start_date <= ? AND b.end_date >= ?`, []interface{}{now, now}
	case domain.FilterPast:
		return ` AND b.end_date < ?`, []interface{}{now}
	case domain.FilterFuture:
		return ` AND b.start_date > ?`, []interface{}{now}
	case domain.FilterWaiting, domain.FilterRejected:
		return ` AND b.status = ?`, []interface{}{string(q.Filter)}
	default: // ALL
		return ``, nil
	}
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	booking := &domain.Booking{Item: &domain.Item{}, Booker: &domain.User{}}
	var start, end, status string
	var available int
	var requestID sql.NullInt64

	err := row.Scan(
		&booking.ID, &start, &end, &status,
		&booking.Item.ID, &booking.Item.Name, &booking.Item.Description,
		&available, &booking.Item.OwnerID, &requestID,
		&booking.Booker.ID, &booking.Booker.Name, &booking.Booker.Email,
	)
	if err != nil {
		return nil, err
	}

	if booking.Start, err = parseTime(start); err != nil {
		return nil, err
	}
	if booking.End, err = parseTime(end); err != nil {
		return nil, err
	}
	booking.Status = domain.BookingStatus(status)
	booking.Item.Available = available != 0
	if requestID.Valid {
		booking.Item.RequestID = &requestID.Int64
	}

	return booking, nil
}

func collectBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return bookings, nil
}

// Ensure bookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*bookingRepository)(nil)
