package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/repository"
)

// bookingRepository implements repository.BookingRepository for PostgreSQL.
type bookingRepository struct {
	db *DB
}

// NewBookingRepository creates a new PostgreSQL booking repository.
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
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO bookings (item_id, booker_id, start_date, end_date, status)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		booking.ItemID(), booking.BookerID(),
		booking.Start, booking.End, string(booking.Status),
	).Scan(&booking.ID)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by ID with its item and booker.
func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.Pool.QueryRow(ctx, bookingSelect+` WHERE b.id = $1`, id)
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
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE bookings SET status = $1 WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByBooker returns the booker's bookings matching the query,
// ordered by start descending.
func (r *bookingRepository) ListByBooker(ctx context.Context, bookerID int64, q repository.BookingQuery) ([]*domain.Booking, error) {
	cond, condArgs := filterClause(q, 2)

	args := append([]interface{}{bookerID}, condArgs...)
	args = append(args, q.Page.Limit, q.Page.Offset)

	rows, err := r.db.Pool.Query(ctx,
		bookingSelect+` WHERE b.booker_id = $1`+cond+
			fmt.Sprintf(` ORDER BY b.start_date DESC LIMIT $%d OFFSET $%d`,
				len(args)-1, len(args)),
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
	cond, condArgs := filterClause(q, 2)

	args := append([]interface{}{ownerID}, condArgs...)
	args = append(args, q.Page.Limit, q.Page.Offset)

	rows, err := r.db.Pool.Query(ctx,
		bookingSelect+` WHERE i.owner_id = $1`+cond+
			fmt.Sprintf(` ORDER BY b.start_date DESC LIMIT $%d OFFSET $%d`,
				len(args)-1, len(args)),
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
	rows, err := r.db.Pool.Query(ctx,
		bookingSelect+` WHERE b.item_id = $1 ORDER BY b.start_date`,
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
	rows, err := r.db.Pool.Query(ctx,
		bookingSelect+` WHERE b.booker_id = $1 AND b.end_date < $2 ORDER BY b.start_date DESC`,
		bookerID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list past bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// filterClause renders the state filter as an extra WHERE condition.
// Placeholders are numbered starting at next. CURRENT is inclusive at
// both ends of the interval.
func filterClause(q repository.BookingQuery, next int) (string, []interface{}) {
	switch q.Filter {
	case domain.FilterCurrent:
		return fmt.Sprintf(` AND b.start_date <= $%d AND b.end_date >= $%d`, next, next+1),
			[]interface{}{q.Now, q.Now}
	case domain.FilterPast:
		return fmt.Sprintf(` AND b.end_date < $%d`, next), []interface{}{q.Now}
	case domain.FilterFuture:
		return fmt.Sprintf(` AND b.start_date > $%d`, next), []interface{}{q.Now}
	case domain.FilterWaiting, domain.FilterRejected:
		return fmt.Sprintf(` AND b.status = $%d`, next), []interface{}{string(q.Filter)}
	default: // ALL
		return ``, nil
	}
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	booking := &domain.Booking{Item: &domain.Item{}, Booker: &domain.User{}}
	var status string

	err := row.Scan(
		&booking.ID, &booking.Start, &booking.End, &status,
		&booking.Item.ID, &booking.Item.Name, &booking.Item.Description,
		&booking.Item.Available, &booking.Item.OwnerID, &booking.Item.RequestID,
		&booking.Booker.ID, &booking.Booker.Name, &booking.Booker.Email,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	return booking, nil
}

func collectBookings(rows pgx.Rows) ([]*domain.Booking, error) {
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
