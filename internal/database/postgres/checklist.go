package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ChecklistRepository implements the checklist repository for PostgreSQL
type ChecklistRepository struct {
	db *pgxpool.Pool
}

// NewChecklistRepository creates a new ChecklistRepository
func NewChecklistRepository(db *pgxpool.Pool) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

// CompleteEntries marks every incomplete entry referencing the definition on
// the user's active checklists and bumps each parent's completed count.
// Only incomplete rows are touched, so a settlement retry is a no-op.
func (r *ChecklistRepository) CompleteEntries(ctx context.Context, userID string, definitionID int64, completedAt time.Time) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin checklist transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	complete := `
		UPDATE checklist_entries e
		SET completed = TRUE, completed_at = $3
		FROM checklists c
		WHERE e.checklist_id = c.id
		  AND c.user_id = $1
		  AND c.active
		  AND e.definition_id = $2
		  AND NOT e.completed
		RETURNING e.checklist_id
	`

	rows, err := tx.Query(ctx, complete, userID, definitionID, completedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to complete checklist entries: %w", err)
	}

	var checklistIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan checklist id: %w", err)
		}
		checklistIDs = append(checklistIDs, id)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("row iteration error: %w", err)
	}

	// One increment per completed entry, including several on the same list.
	increment := `UPDATE checklists SET completed_count = completed_count + 1 WHERE id = $1`
	for _, id := range checklistIDs {
		if _, err := tx.Exec(ctx, increment, id); err != nil {
			return 0, fmt.Errorf("failed to increment checklist counter: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit checklist sync: %w", err)
	}

	return int64(len(checklistIDs)), nil
}

// AutoCompleteDone closes active checklists whose completed count has reached
// their total
func (r *ChecklistRepository) AutoCompleteDone(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE checklists
		SET active = FALSE, completed_at = $1
		WHERE active
		  AND total_count > 0
		  AND completed_count >= total_count
	`

	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to auto-complete checklists: %w", err)
	}
	return tag.RowsAffected(), nil
}
