package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProgressionRepository implements the user experience repository for PostgreSQL
type ProgressionRepository struct {
	db *pgxpool.Pool
}

// NewProgressionRepository creates a new ProgressionRepository
func NewProgressionRepository(db *pgxpool.Pool) *ProgressionRepository {
	return &ProgressionRepository{db: db}
}

// AddExperience grants exp to the user, creating the row on first grant
func (r *ProgressionRepository) AddExperience(ctx context.Context, userID string, amount int) error {
	query := `
		INSERT INTO user_progression (user_id, experience, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			experience = user_progression.experience + EXCLUDED.experience,
			updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, userID, amount); err != nil {
		return fmt.Errorf("failed to add experience: %w", err)
	}
	return nil
}

// GetExperience retrieves the user's experience total
func (r *ProgressionRepository) GetExperience(ctx context.Context, userID string) (int, error) {
	query := `SELECT COALESCE(
		(SELECT experience FROM user_progression WHERE user_id = $1), 0)`

	var exp int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exp); err != nil {
		return 0, fmt.Errorf("failed to get experience: %w", err)
	}
	return exp, nil
}
