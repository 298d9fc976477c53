package domain

import "time"

// Checklist is a user-curated daily list of mission references. It is a
// separate aggregate from MissionInstance but mirrors completion state:
// settling an instance marks every matching incomplete entry complete.
type Checklist struct {
	ID             int64      `json:"id"`
	UserID         string     `json:"user_id"`
	Title          string     `json:"title"`
	TotalCount     int        `json:"total_count"`
	CompletedCount int        `json:"completed_count"`
	Active         bool       `json:"active"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Done reports whether every entry on the list has been completed.
func (c *Checklist) Done() bool {
	return c.TotalCount > 0 && c.CompletedCount >= c.TotalCount
}

// ChecklistEntry points a checklist at one mission definition.
type ChecklistEntry struct {
	ID           int64      `json:"id"`
	ChecklistID  int64      `json:"checklist_id"`
	DefinitionID int64      `json:"definition_id"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}
