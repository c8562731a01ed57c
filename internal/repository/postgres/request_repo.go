package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/repository"
)

// requestRepository implements repository.RequestRepository for PostgreSQL.
type requestRepository struct {
	db *DB
}

// NewRequestRepository creates a new PostgreSQL request repository.
func NewRequestRepository(db *DB) repository.RequestRepository {
	return &requestRepository{db: db}
}

const requestSelect = `
	SELECT r.id, r.description, r.created,
	       u.id, u.name, u.email
	FROM requests r
	JOIN users u ON u.id = r.requestor_id`

// Create creates a new request.
func (r *requestRepository) Create(ctx context.Context, request *domain.Request) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO requests (description, requestor_id, created)
		 VALUES ($1, $2, $3) RETURNING id`,
		request.Description, request.RequestorID(), request.Created,
	).Scan(&request.ID)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// GetByID retrieves a request by ID with its requestor.
func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	row := r.db.Pool.QueryRow(ctx, requestSelect+` WHERE r.id = $1`, id)
	request, err := scanRequest(row)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get request by ID: %w", err)
	}
	return request, nil
}

// ListByRequestor returns the user's requests ordered by creation time.
func (r *requestRepository) ListByRequestor(ctx context.Context, requestorID int64) ([]*domain.Request, error) {
	rows, err := r.db.Pool.Query(ctx,
		requestSelect+` WHERE r.requestor_id = $1 ORDER BY r.created`,
		requestorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests by requestor: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// List returns a page of all requests ordered by creation time.
func (r *requestRepository) List(ctx context.Context, page repository.Page) ([]*domain.Request, error) {
	rows, err := r.db.Pool.Query(ctx,
		requestSelect+` ORDER BY r.created LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

func scanRequest(row pgx.Row) (*domain.Request, error) {
	request := &domain.Request{Requestor: &domain.User{}}
	err := row.Scan(
		&request.ID, &request.Description, &request.Created,
		&request.Requestor.ID, &request.Requestor.Name, &request.Requestor.Email,
	)
	if err != nil {
		return nil, err
	}
	return request, nil
}

func collectRequests(rows pgx.Rows) ([]*domain.Request, error) {
	var requests []*domain.Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requests: %w", err)
	}
	return requests, nil
}

// Ensure requestRepository implements repository.RequestRepository.
var _ repository.RequestRepository = (*requestRepository)(nil)
