package repository

import (
	"context"

	"github.com/replantlab/missiond/internal/domain"
)

// Profile defines the interface for user schedule profile data access
type Profile interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserScheduleProfile, error)

	// ListUsersWithTriggerTime returns the profiles whose trigger time for
	// the category matches any of the stored time variants. Callers pass
	// both the padded and unpadded forms because legacy rows mix them.
	ListUsersWithTriggerTime(ctx context.Context, category domain.TriggerCategory, timeVariants []string) ([]domain.UserScheduleProfile, error)

	// UpdateSchedule replaces the trigger times and stamps
	// schedule_changed_at, arming the anti-abuse cool-down.
	UpdateSchedule(ctx context.Context, profile *domain.UserScheduleProfile) error
}
