package repository

import (
	"context"

	"github.com/replantlab/missiond/internal/domain"
)

// Catalog defines the interface for mission definition data access.
// Definitions are immutable snapshots from the core's point of view; the
// only write is the self-add of a custom mission.
type Catalog interface {
	GetDefinition(ctx context.Context, id int64) (*domain.MissionDefinition, error)
	ListActiveByCategory(ctx context.Context, category domain.TriggerCategory) ([]domain.MissionDefinition, error)

	// CreateCustomDefinition persists a user-authored mission definition.
	CreateCustomDefinition(ctx context.Context, def *domain.MissionDefinition) (int64, error)
}
