package repository

import (
	"context"

	"github.com/replantlab/missiond/internal/domain"
)

// Proof defines the interface for verification proof data access
type Proof interface {
	Create(ctx context.Context, proof *domain.ProofRecord) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.ProofRecord, error)

	// GetByPostID resolves the votable proof attached to a community post.
	GetByPostID(ctx context.Context, postID int64) (*domain.ProofRecord, error)

	// Delete removes a proof record (vote withdrawal while pending).
	Delete(ctx context.Context, id int64) error
}

// Vote defines the interface for community vote data access
type Vote interface {
	// RecordVote inserts the vote and returns the updated tally in one
	// atomic statement. A second vote from the same voter returns
	// domain.ErrAlreadyVoted.
	RecordVote(ctx context.Context, proofID int64, voterID string, approve bool) (domain.VoteTally, error)

	// Tally returns the current counts for a proof.
	Tally(ctx context.Context, proofID int64) (domain.VoteTally, error)
}
