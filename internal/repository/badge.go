package repository

import (
	"context"
	"time"

	"github.com/replantlab/missiond/internal/domain"
)

// Badge defines the interface for badge data access
type Badge interface {
	// IssueIfAbsent inserts the badge unless one already exists for the
	// mission instance. Returns false when the badge was already issued.
	IssueIfAbsent(ctx context.Context, badge *domain.Badge) (bool, error)

	// ListActive returns the user's unexpired badges.
	ListActive(ctx context.Context, userID string, now time.Time) ([]domain.Badge, error)
}
