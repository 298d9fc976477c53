package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/replantlab/missiond/internal/domain"
)

// CatalogRepository implements the mission definition repository for PostgreSQL
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const definitionColumns = `
	id, title, description, trigger_category, verification_type, reward_exp,
	badge_duration_days, gps_latitude, gps_longitude, gps_radius_meters,
	required_minutes, window_minutes, duration_days, custom, owner_id,
	active, created_at
`

func scanDefinition(row pgx.Row) (*domain.MissionDefinition, error) {
	var def domain.MissionDefinition
	var description *string
	var category *string
	var badgeDays *int
	var lat, lng *float64
	var radius *int
	err := row.Scan(
		&def.ID,
		&def.Title,
		&description,
		&category,
		&def.VerificationType,
		&def.RewardExp,
		&badgeDays,
		&lat,
		&lng,
		&radius,
		&def.RequiredMinutes,
		&def.WindowMinutes,
		&def.DurationDays,
		&def.Custom,
		&def.OwnerID,
		&def.Active,
		&def.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description != nil {
		def.Description = *description
	}
	if category != nil {
		c := domain.TriggerCategory(*category)
		def.TriggerCategory = &c
	}
	if badgeDays != nil {
		def.BadgeDurationDays = *badgeDays
	}
	if lat != nil && lng != nil {
		def.GPSTarget = &domain.GPSTarget{Latitude: *lat, Longitude: *lng}
		if radius != nil {
			def.GPSTarget.RadiusMeters = *radius
		}
	}

	return &def, nil
}

// GetDefinition retrieves a mission definition by ID
func (r *CatalogRepository) GetDefinition(ctx context.Context, id int64) (*domain.MissionDefinition, error) {
	query := `SELECT ` + definitionColumns + ` FROM mission_definitions WHERE id = $1`

	def, err := scanDefinition(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrMissionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mission definition: %w", err)
	}

	return def, nil
}

// ListActiveByCategory retrieves active definitions for a trigger category
func (r *CatalogRepository) ListActiveByCategory(ctx context.Context, category domain.TriggerCategory) ([]domain.MissionDefinition, error) {
	query := `
		SELECT ` + definitionColumns + `
		FROM mission_definitions
		WHERE trigger_category = $1 AND active
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to query definitions: %w", err)
	}
	defer rows.Close()

	var defs []domain.MissionDefinition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan definition: %w", err)
		}
		defs = append(defs, *def)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return defs, nil
}

// CreateCustomDefinition persists a user-authored mission definition
func (r *CatalogRepository) CreateCustomDefinition(ctx context.Context, def *domain.MissionDefinition) (int64, error) {
	query := `
		INSERT INTO mission_definitions
			(title, description, verification_type, reward_exp, duration_days,
			 required_minutes, custom, owner_id, active)
		VALUES ($1, NULLIF($2, ''), $3, 0, $4, $5, TRUE, $6, TRUE)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		def.Title,
		def.Description,
		def.VerificationType,
		def.DurationDays,
		def.RequiredMinutes,
		def.OwnerID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create custom definition: %w", err)
	}

	return id, nil
}
