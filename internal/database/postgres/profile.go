package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/replantlab/missiond/internal/domain"
)

// ProfileRepository implements the user schedule profile repository for PostgreSQL
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// categoryColumn maps a trigger category to its profile column. The column
// name is interpolated into SQL, so it must come from this closed map and
// never from caller input.
var categoryColumn = map[domain.TriggerCategory]string{
	domain.TriggerWakeUp:    "wake_time",
	domain.TriggerBreakfast: "breakfast_time",
	domain.TriggerLunch:     "lunch_time",
	domain.TriggerDinner:    "dinner_time",
}

func scanProfile(row pgx.Row) (*domain.UserScheduleProfile, error) {
	var p domain.UserScheduleProfile
	var wake, breakfast, lunch, dinner *string
	err := row.Scan(&p.UserID, &wake, &breakfast, &lunch, &dinner, &p.ScheduleChangedAt)
	if err != nil {
		return nil, err
	}
	if wake != nil {
		p.WakeTime = *wake
	}
	if breakfast != nil {
		p.BreakfastTime = *breakfast
	}
	if lunch != nil {
		p.LunchTime = *lunch
	}
	if dinner != nil {
		p.DinnerTime = *dinner
	}
	return &p, nil
}

// GetProfile retrieves a user's schedule profile
func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.UserScheduleProfile, error) {
	query := `
		SELECT user_id, wake_time, breakfast_time, lunch_time, dinner_time, schedule_changed_at
		FROM user_schedule_profiles
		WHERE user_id = $1
	`

	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule profile: %w", err)
	}

	return profile, nil
}

// ListUsersWithTriggerTime returns profiles whose trigger time for the
// category matches any of the stored variants ("07:30" and "7:30")
func (r *ProfileRepository) ListUsersWithTriggerTime(ctx context.Context, category domain.TriggerCategory, timeVariants []string) ([]domain.UserScheduleProfile, error) {
	column, ok := categoryColumn[category]
	if !ok {
		return nil, fmt.Errorf("unknown trigger category: %s", category)
	}

	query := fmt.Sprintf(`
		SELECT user_id, wake_time, breakfast_time, lunch_time, dinner_time, schedule_changed_at
		FROM user_schedule_profiles
		WHERE %s = ANY($1)
	`, column)

	rows, err := r.db.Query(ctx, query, timeVariants)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.UserScheduleProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule profile: %w", err)
		}
		profiles = append(profiles, *profile)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return profiles, nil
}

// UpdateSchedule replaces the trigger times and stamps schedule_changed_at,
// arming the one-day assignment cool-down
func (r *ProfileRepository) UpdateSchedule(ctx context.Context, profile *domain.UserScheduleProfile) error {
	query := `
		INSERT INTO user_schedule_profiles
			(user_id, wake_time, breakfast_time, lunch_time, dinner_time, schedule_changed_at, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NOW(), NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			wake_time = EXCLUDED.wake_time,
			breakfast_time = EXCLUDED.breakfast_time,
			lunch_time = EXCLUDED.lunch_time,
			dinner_time = EXCLUDED.dinner_time,
			schedule_changed_at = NOW(),
			updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		profile.UserID,
		profile.WakeTime,
		profile.BreakfastTime,
		profile.LunchTime,
		profile.DinnerTime,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule profile: %w", err)
	}

	return nil
}
