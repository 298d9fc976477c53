package repository

import (
	"context"

	"github.com/replantlab/missiond/internal/domain"
)

// Post defines the read-only interface to the community post store.
// Meal and community-vote verification only need existence and authorship.
type Post interface {
	GetPost(ctx context.Context, id int64) (*domain.PostRef, error)
}
