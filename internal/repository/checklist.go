package repository

import (
	"context"
	"time"
)

// Checklist defines the interface for checklist data access
type Checklist interface {
	// CompleteEntries marks every incomplete entry referencing the
	// definition on the user's active checklists and increments each
	// parent's completed count. Returns the number of entries updated.
	// Already-complete entries are untouched, so retries are safe.
	CompleteEntries(ctx context.Context, userID string, definitionID int64, completedAt time.Time) (int64, error)

	// AutoCompleteDone closes active checklists whose completed count has
	// reached their total. Returns the number of checklists closed.
	AutoCompleteDone(ctx context.Context, now time.Time) (int64, error)
}
