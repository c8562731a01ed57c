package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/repository"
)

// itemRepository implements repository.ItemRepository for SQLite.
type itemRepository struct {
	db *DB
}

// NewItemRepository creates a new SQLite item repository.
func NewItemRepository(db *DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

// Create creates a new item.
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO items (name, description, available, owner_id, request_id)
		 VALUES (?, ?, ?, ?, ?)`,
		item.Name, item.Description, boolToInt(item.Available), item.OwnerID, item.RequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	item.ID = id

	return nil
}

// GetByID retrieves an item by ID.
func (r *itemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, available, owner_id, request_id
		 FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}
	return item, nil
}

// Update updates an existing item.
func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, available = ?, request_id = ?
		 WHERE id = ?`,
		item.Name, item.Description, boolToInt(item.Available), item.RequestID, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListByOwner returns a page of the owner's items ordered by ID.
func (r *itemRepository) ListByOwner(ctx context.Context, ownerID int64, page repository.Page) ([]*domain.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, available, owner_id, request_id
		 FROM items
		 WHERE owner_id = ?
		 ORDER BY id
		 LIMIT ? OFFSET ?`,
		ownerID, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by owner: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// Search returns a page of available items whose name or description
// contains the text, matched case-insensitively.
func (r *itemRepository) Search(ctx context.Context, text string, page repository.Page) ([]*domain.Item, error) {
	// LIKE is case-insensitive for ASCII in SQLite by default; lower()
	// keeps the behaviour explicit and matches the postgres backend.
	pattern := "%" + text + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, available, owner_id, request_id
		 FROM items
		 WHERE available = 1
		   AND (lower(name) LIKE lower(?) OR lower(description) LIKE lower(?))
		 ORDER BY id
		 LIMIT ? OFFSET ?`,
		pattern, pattern, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ListByRequestID returns the items that reference the given request.
func (r *itemRepository) ListByRequestID(ctx context.Context, requestID int64) ([]*domain.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, available, owner_id, request_id
		 FROM items
		 WHERE request_id = ?
		 ORDER BY id`,
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by request: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	item := &domain.Item{}
	var available int
	var requestID sql.NullInt64
	err := row.Scan(&item.ID, &item.Name, &item.Description, &available, &item.OwnerID, &requestID)
	if err != nil {
		return nil, err
	}
	item.Available = available != 0
	if requestID.Valid {
		item.RequestID = &requestID.Int64
	}
	return item, nil
}

func collectItems(rows *sql.Rows) ([]*domain.Item, error) {
	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

// Ensure itemRepository implements repository.ItemRepository.
var _ repository.ItemRepository = (*itemRepository)(nil)
