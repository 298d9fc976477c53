package repository

import (
	"context"
	"time"

	"github.com/replantlab/missiond/internal/domain"
)

// Instance defines the interface for mission instance data access.
// The instance row is the unit of mutual exclusion: every lifecycle change
// goes through TransitionStatus so concurrent writers serialize on it.
type Instance interface {
	GetByID(ctx context.Context, id int64) (*domain.MissionInstance, error)

	// CreateIfAbsent inserts the instance unless an open one already exists
	// for the same user, definition and assignment day. Returns false when
	// the duplicate guard suppressed the insert.
	CreateIfAbsent(ctx context.Context, instance *domain.MissionInstance) (bool, error)

	// ExistsOpenForDay reports whether an ASSIGNED or PENDING_REVIEW
	// instance exists for the user and definition on the given calendar day.
	ExistsOpenForDay(ctx context.Context, userID string, definitionID int64, day time.Time) (bool, error)

	// TransitionStatus performs UPDATE ... WHERE status = from. Returns
	// false when the row was not in the expected state.
	TransitionStatus(ctx context.Context, id int64, from, to domain.InstanceStatus) (bool, error)

	// SetProof links the verification proof to the instance.
	SetProof(ctx context.Context, id int64, proofID int64) error

	// ClearProof detaches the proof again (vote withdrawal).
	ClearProof(ctx context.Context, id int64) error

	// ListExpired returns ASSIGNED instances whose deadline has passed.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.MissionInstance, error)

	// ListForUser returns the user's instances assigned on the given day.
	ListForUser(ctx context.Context, userID string, day time.Time) ([]domain.MissionInstance, error)
}
