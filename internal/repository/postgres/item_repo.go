package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/repository"
)

// itemRepository implements repository.ItemRepository for PostgreSQL.
type itemRepository struct {
	db *DB
}

// NewItemRepository creates a new PostgreSQL item repository.
func NewItemRepository(db *DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `id, name, description, available, owner_id, request_id`

// Create creates a new item.
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO items (name, description, available, owner_id, request_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		item.Name, item.Description, item.Available, item.OwnerID, item.RequestID,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// GetByID retrieves an item by ID.
func (r *itemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
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
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE items SET name = $1, description = $2, available = $3 WHERE id = $4`,
		item.Name, item.Description, item.Available, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByOwner returns a page of the owner's items ordered by ID.
func (r *itemRepository) ListByOwner(ctx context.Context, ownerID int64, page repository.Page) ([]*domain.Item, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+itemColumns+` FROM items WHERE owner_id = $1
		 ORDER BY id LIMIT $2 OFFSET $3`,
		ownerID, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by owner: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// Search returns a page of available items matching the text.
func (r *itemRepository) Search(ctx context.Context, text string, page repository.Page) ([]*domain.Item, error) {
	pattern := "%" + text + "%"
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE available AND (name ILIKE $1 OR description ILIKE $1)
		 ORDER BY id LIMIT $2 OFFSET $3`,
		pattern, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ListByRequestID returns the items that reference the given request.
func (r *itemRepository) ListByRequestID(ctx context.Context, requestID int64) ([]*domain.Item, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+itemColumns+` FROM items WHERE request_id = $1 ORDER BY id`,
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by request: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	item := &domain.Item{}
	err := row.Scan(&item.ID, &item.Name, &item.Description,
		&item.Available, &item.OwnerID, &item.RequestID)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func collectItems(rows pgx.Rows) ([]*domain.Item, error) {
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
