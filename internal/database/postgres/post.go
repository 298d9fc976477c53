package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/replantlab/missiond/internal/domain"
)

// PostRepository implements the read-only community post lookup for PostgreSQL
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

// GetPost retrieves the minimal post view needed for ownership checks
func (r *PostRepository) GetPost(ctx context.Context, id int64) (*domain.PostRef, error) {
	query := `SELECT id, author_id FROM posts WHERE id = $1`

	var post domain.PostRef
	err := r.db.QueryRow(ctx, query, id).Scan(&post.ID, &post.AuthorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrPostNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &post, nil
}
