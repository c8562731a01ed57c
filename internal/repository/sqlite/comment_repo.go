package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/repository"
)

// commentRepository implements repository.CommentRepository for SQLite.
type commentRepository struct {
	db *DB
}

// NewCommentRepository creates a new SQLite comment repository.
func NewCommentRepository(db *DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

const commentSelect = `
	SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created
	FROM comments c
	JOIN users u ON u.id = c.author_id`

// Create creates a new comment.
func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`,
		comment.Text, comment.ItemID, comment.AuthorID, formatTime(comment.Created),
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	comment.ID = id

	return nil
}

// ListByItem returns the item's comments ordered by creation time.
func (r *commentRepository) ListByItem(ctx context.Context, itemID int64) ([]*domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		commentSelect+` WHERE c.item_id = ? ORDER BY c.created`,
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
	rows, err := r.db.QueryContext(ctx,
		commentSelect+`
		 JOIN items i ON i.id = c.item_id
		 WHERE i.owner_id = ?
		 ORDER BY c.created`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments by owner: %w", err)
	}
	defer rows.Close()

	return collectComments(rows)
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	comment := &domain.Comment{}
	var created string

	err := row.Scan(&comment.ID, &comment.Text, &comment.ItemID, &comment.AuthorID, &comment.AuthorName, &created)
	if err != nil {
		return nil, err
	}

	if comment.Created, err = parseTime(created); err != nil {
		return nil, err
	}
	return comment, nil
}

func collectComments(rows *sql.Rows) ([]*domain.Comment, error) {
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
