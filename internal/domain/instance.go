package domain

import "time"

// InstanceStatus is the lifecycle state of a MissionInstance.
type InstanceStatus string

const (
	StatusAssigned      InstanceStatus = "ASSIGNED"
	StatusPendingReview InstanceStatus = "PENDING_REVIEW"
	StatusCompleted     InstanceStatus = "COMPLETED"
	StatusFailed        InstanceStatus = "FAILED"
)

// Terminal reports whether the status permits no further transitions.
func (s InstanceStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// MissionInstance is a single per-user occurrence of a mission definition.
// At most one instance per (user, definition, calendar day) may be
// non-terminal; the persistence layer enforces this with a partial unique
// index.
type MissionInstance struct {
	ID           int64           `json:"id"`
	UserID       string          `json:"user_id"`
	DefinitionID int64           `json:"definition_id"`
	Category     TriggerCategory `json:"category,omitempty"`
	AssignedAt   time.Time       `json:"assigned_at"`
	AssignedOn   time.Time       `json:"assigned_on"`
	Deadline     time.Time       `json:"deadline"`
	Status       InstanceStatus  `json:"status"`
	ProofID      *int64          `json:"proof_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Expired reports whether the instance's deadline has passed.
func (m *MissionInstance) Expired(now time.Time) bool {
	return now.After(m.Deadline)
}

// VerificationResult summarizes a successful verification for the caller.
type VerificationResult struct {
	InstanceID int64          `json:"instance_id"`
	Status     InstanceStatus `json:"status"`
	Proof      *ProofRecord   `json:"proof,omitempty"`
	ExpGranted int            `json:"exp_granted"`
	Badge      *Badge         `json:"badge,omitempty"`
}

// VoteResult reports the tally after a community vote was cast, and whether
// the vote closed the review.
type VoteResult struct {
	PostID       int64          `json:"post_id"`
	ApproveCount int            `json:"approve_count"`
	RejectCount  int            `json:"reject_count"`
	Status       InstanceStatus `json:"status"`
}
