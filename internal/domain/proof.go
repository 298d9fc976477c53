package domain

import "time"

// ProofRecord is the evidence attached to a mission instance, discriminated
// by verification type. Created once and owned by exactly one instance; only
// the vote counters mutate afterwards, and only through the atomic vote
// primitive in the persistence layer.
type ProofRecord struct {
	ID         int64            `json:"id"`
	InstanceID int64            `json:"instance_id"`
	Type       VerificationType `json:"type"`
	VerifiedAt time.Time        `json:"verified_at"`

	// GPS
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	DistanceMeters *int     `json:"distance_meters,omitempty"`

	// DURATION
	StartedAt      *time.Time `json:"started_at,omitempty"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	ElapsedMinutes *int       `json:"elapsed_minutes,omitempty"`

	// COMMUNITY_VOTE / MEAL
	PostID       *int64 `json:"post_id,omitempty"`
	ApproveCount int    `json:"approve_count"`
	RejectCount  int    `json:"reject_count"`

	// Optional 0-100 scalar scaling the reward.
	CompletionRate *int `json:"completion_rate,omitempty"`
}

// VerificationVote is a single peer vote on a community-verified proof.
// (proof_id, voter_id) is unique.
type VerificationVote struct {
	ProofID int64     `json:"proof_id"`
	VoterID string    `json:"voter_id"`
	Approve bool      `json:"approve"`
	CastAt  time.Time `json:"cast_at"`
}

// VoteTally is the counter state after an atomic vote insert.
type VoteTally struct {
	ApproveCount int
	RejectCount  int
}

// PostRef is the minimal view of a community post the core needs: enough to
// check ownership when a meal or community-vote proof links one.
type PostRef struct {
	ID       int64  `json:"id"`
	AuthorID string `json:"author_id"`
}
