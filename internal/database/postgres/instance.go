package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/replantlab/missiond/internal/domain"
)

// InstanceRepository implements the mission instance repository for PostgreSQL
type InstanceRepository struct {
	db *pgxpool.Pool
}

// NewInstanceRepository creates a new InstanceRepository
func NewInstanceRepository(db *pgxpool.Pool) *InstanceRepository {
	return &InstanceRepository{db: db}
}

const instanceColumns = `
	id, user_id, definition_id, category, assigned_at, assigned_on,
	deadline, status, proof_id, created_at, updated_at
`

func scanInstance(row pgx.Row) (*domain.MissionInstance, error) {
	var inst domain.MissionInstance
	var category *string
	err := row.Scan(
		&inst.ID,
		&inst.UserID,
		&inst.DefinitionID,
		&category,
		&inst.AssignedAt,
		&inst.AssignedOn,
		&inst.Deadline,
		&inst.Status,
		&inst.ProofID,
		&inst.CreatedAt,
		&inst.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if category != nil {
		inst.Category = domain.TriggerCategory(*category)
	}
	return &inst, nil
}

// GetByID retrieves a mission instance by ID
func (r *InstanceRepository) GetByID(ctx context.Context, id int64) (*domain.MissionInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM mission_instances WHERE id = $1`

	inst, err := scanInstance(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrInstanceNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mission instance: %w", err)
	}

	return inst, nil
}

// CreateIfAbsent inserts the instance unless the partial unique index on
// (user_id, definition_id, assigned_on) already holds an open row. The
// conflict is detected by error code rather than ON CONFLICT because
// partial-index inference is not supported for arbitrary predicates.
func (r *InstanceRepository) CreateIfAbsent(ctx context.Context, instance *domain.MissionInstance) (bool, error) {
	query := `
		INSERT INTO mission_instances
			(user_id, definition_id, category, assigned_at, assigned_on, deadline, status)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		instance.UserID,
		instance.DefinitionID,
		string(instance.Category),
		instance.AssignedAt,
		instance.AssignedOn,
		instance.Deadline,
		instance.Status,
	).Scan(&instance.ID, &instance.CreatedAt, &instance.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create mission instance: %w", err)
	}

	return true, nil
}

// ExistsOpenForDay checks the duplicate-assignment guard without inserting
func (r *InstanceRepository) ExistsOpenForDay(ctx context.Context, userID string, definitionID int64, day time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM mission_instances
			WHERE user_id = $1
			  AND definition_id = $2
			  AND assigned_on = $3
			  AND status IN ('ASSIGNED', 'PENDING_REVIEW')
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, definitionID, day).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check open instance: %w", err)
	}
	return exists, nil
}

// TransitionStatus moves the instance from one status to another.
// Returns false when the row was not in the expected state, which callers
// treat as "someone else got there first".
func (r *InstanceRepository) TransitionStatus(ctx context.Context, id int64, from, to domain.InstanceStatus) (bool, error) {
	query := `
		UPDATE mission_instances
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	tag, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to transition instance status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetProof links a verification proof to the instance
func (r *InstanceRepository) SetProof(ctx context.Context, id int64, proofID int64) error {
	query := `UPDATE mission_instances SET proof_id = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, proofID)
	if err != nil {
		return fmt.Errorf("failed to set instance proof: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrInstanceNotFound, id)
	}
	return nil
}

// ClearProof detaches the proof from the instance
func (r *InstanceRepository) ClearProof(ctx context.Context, id int64) error {
	query := `UPDATE mission_instances SET proof_id = NULL, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to clear instance proof: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrInstanceNotFound, id)
	}
	return nil
}

// ListExpired returns ASSIGNED instances whose deadline has passed
func (r *InstanceRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.MissionInstance, error) {
	query := `
		SELECT ` + instanceColumns + `
		FROM mission_instances
		WHERE status = 'ASSIGNED' AND deadline < $1
		ORDER BY deadline
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired instances: %w", err)
	}
	defer rows.Close()

	var instances []domain.MissionInstance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instance: %w", err)
		}
		instances = append(instances, *inst)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return instances, nil
}

// ListForUser returns the user's instances assigned on the given day
func (r *InstanceRepository) ListForUser(ctx context.Context, userID string, day time.Time) ([]domain.MissionInstance, error) {
	query := `
		SELECT ` + instanceColumns + `
		FROM mission_instances
		WHERE user_id = $1 AND assigned_on = $2
		ORDER BY assigned_at
	`

	rows, err := r.db.Query(ctx, query, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query user instances: %w", err)
	}
	defer rows.Close()

	var instances []domain.MissionInstance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instance: %w", err)
		}
		instances = append(instances, *inst)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return instances, nil
}
