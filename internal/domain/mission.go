package domain

import "time"

// VerificationType is the proof mechanism required to complete a mission.
// It is an explicit field on the definition and is never inferred from
// display text.
type VerificationType string

const (
	VerificationGPS           VerificationType = "GPS"
	VerificationDuration      VerificationType = "DURATION"
	VerificationTimeBoxed     VerificationType = "TIME_BOXED"
	VerificationCommunityVote VerificationType = "COMMUNITY_VOTE"
	VerificationMeal          VerificationType = "MEAL"
)

// TriggerCategory identifies which configured time-of-day slot causes a
// mission to be assigned.
type TriggerCategory string

const (
	TriggerWakeUp    TriggerCategory = "wake_up"
	TriggerBreakfast TriggerCategory = "breakfast"
	TriggerLunch     TriggerCategory = "lunch"
	TriggerDinner    TriggerCategory = "dinner"
)

// TriggerCategories lists every category the assignment scheduler processes,
// in tick order.
var TriggerCategories = []TriggerCategory{
	TriggerWakeUp,
	TriggerBreakfast,
	TriggerLunch,
	TriggerDinner,
}

// GPSTarget is the coordinate a GPS-verified mission must be completed near.
type GPSTarget struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters int     `json:"radius_meters"`
}

// MissionDefinition is a read-mostly catalog entry describing how a mission
// is verified and rewarded. The core consumes definitions, it never mutates
// them.
type MissionDefinition struct {
	ID                int64            `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description,omitempty"`
	TriggerCategory   *TriggerCategory `json:"trigger_category,omitempty"`
	VerificationType  VerificationType `json:"verification_type"`
	RewardExp         int              `json:"reward_exp"`
	BadgeDurationDays int              `json:"badge_duration_days"`
	GPSTarget         *GPSTarget       `json:"gps_target,omitempty"`
	RequiredMinutes   *int             `json:"required_minutes,omitempty"`
	WindowMinutes     *int             `json:"window_minutes,omitempty"`
	DurationDays      *int             `json:"duration_days,omitempty"`
	Custom            bool             `json:"custom"`
	OwnerID           *string          `json:"owner_id,omitempty"`
	Active            bool             `json:"active"`
	CreatedAt         time.Time        `json:"created_at"`
}

// Radius returns the configured GPS radius, falling back to the default when
// the target has none set.
func (d *MissionDefinition) Radius() int {
	if d.GPSTarget != nil && d.GPSTarget.RadiusMeters > 0 {
		return d.GPSTarget.RadiusMeters
	}
	return DefaultGPSRadiusMeters
}

// BadgeDuration returns the badge lifetime, defaulting when unset.
func (d *MissionDefinition) BadgeDuration() time.Duration {
	days := d.BadgeDurationDays
	if days <= 0 {
		days = DefaultBadgeDurationDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// BaseReward returns the exp granted before completion-rate scaling.
// Self-authored missions never pay out.
func (d *MissionDefinition) BaseReward() int {
	if d.Custom {
		return 0
	}
	return d.RewardExp
}

const (
	DefaultGPSRadiusMeters   = 100
	DefaultBadgeDurationDays = 3

	// Validity windows per trigger category.
	WakeUpWindowMinutes = 10
	MealWindowMinutes   = 120
)
