package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/repository"
)

// commentRepository implements repository.CommentRepository for PostgreSQL.
type commentRepository struct {
	db *DB
}

// NewCommentRepository creates a new PostgreSQL comment repository.
func NewCommentRepository(db *DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

// commentSelect joins the author so AuthorName is filled in one query.
const commentSelect = `
	SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created
	FROM comments c
	JOIN users u ON u.id = c.author_id`

// Create creates a new comment.
func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO comments (text, item_id, author_id, created)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		comment.Text, comment.ItemID, comment.AuthorID, comment.Created,
	).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListByItem returns the item's comments ordered by creation time.
func (r *commentRepository) ListByItem(ctx context.Context, itemID int64) ([]*domain.Comment, error) {
	rows, err := r.db.Pool.Query(ctx,
		commentSelect+` WHERE c.item_id = $1 ORDER BY c.created`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments by item: %w", err)
	}
	defer rows.Close()

	return collectComments(rows)
}

// ListByOwner returns all comments on items owned by the given user.
func (r *commentRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Comment, error) {
	rows, err := r.db.Pool.Query(ctx,
		commentSelect+`
		 JOIN items i ON i.id = c.item_id
		 WHERE i.owner_id = $1
		 ORDER BY c.created`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments by owner: %w", err)
	}
	defer rows.Close()

	return collectComments(rows)
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	comment := &domain.Comment{}
	err := row.Scan(&comment.ID, &comment.Text, &comment.ItemID,
		&comment.AuthorID, &comment.AuthorName, &comment.Created)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func collectComments(rows pgx.Rows) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}

// Ensure commentRepository implements repository.CommentRepository.
var _ repository.CommentRepository = (*commentRepository)(nil)
