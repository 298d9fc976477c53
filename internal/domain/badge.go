package domain

import "time"

// Badge is a time-limited reward token issued exactly once per completed
// mission instance.
type Badge struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	DefinitionID int64     `json:"definition_id"`
	InstanceID   int64     `json:"instance_id"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the badge is past its lifetime.
func (b *Badge) Expired(now time.Time) bool {
	return now.After(b.ExpiresAt)
}
