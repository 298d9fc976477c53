package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/replantlab/missiond/internal/domain"
)

// BadgeRepository implements the badge repository for PostgreSQL
type BadgeRepository struct {
	db *pgxpool.Pool
}

// NewBadgeRepository creates a new BadgeRepository
func NewBadgeRepository(db *pgxpool.Pool) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// IssueIfAbsent inserts the badge unless one already exists for the mission
// instance. The unique constraint on instance_id is the issue-once guard, so
// settlement retries are harmless.
func (r *BadgeRepository) IssueIfAbsent(ctx context.Context, badge *domain.Badge) (bool, error) {
	query := `
		INSERT INTO badges (user_id, definition_id, instance_id, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		badge.UserID,
		badge.DefinitionID,
		badge.InstanceID,
		badge.IssuedAt,
		badge.ExpiresAt,
	).Scan(&badge.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to issue badge: %w", err)
	}

	return true, nil
}

// ListActive returns the user's unexpired badges
func (r *BadgeRepository) ListActive(ctx context.Context, userID string, now time.Time) ([]domain.Badge, error) {
	query := `
		SELECT id, user_id, definition_id, instance_id, issued_at, expires_at
		FROM badges
		WHERE user_id = $1 AND expires_at > $2
		ORDER BY issued_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query badges: %w", err)
	}
	defer rows.Close()

	var badges []domain.Badge
	for rows.Next() {
		var b domain.Badge
		err := rows.Scan(&b.ID, &b.UserID, &b.DefinitionID, &b.InstanceID, &b.IssuedAt, &b.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return badges, nil
}
