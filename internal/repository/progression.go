package repository

import "context"

// Progression defines the interface for user experience data access
type Progression interface {
	// AddExperience grants exp to the user. Amount is always positive;
	// settlement skips the call entirely for zero rewards.
	AddExperience(ctx context.Context, userID string, amount int) error

	GetExperience(ctx context.Context, userID string) (int, error)
}
