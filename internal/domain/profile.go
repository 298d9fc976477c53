package domain

import "time"

// UserScheduleProfile is the per-user trigger-time configuration consumed by
// the assignment scheduler. Times are self-reported HH:MM strings in the
// reference timezone; legacy rows may carry the H:MM form, so callers must
// normalize before matching.
//
// ScheduleChangedAt is a dedicated timestamp set only when the trigger times
// themselves change; the anti-abuse cool-down depends on it and must not fall
// back to a generic updated-at column.
type UserScheduleProfile struct {
	UserID            string     `json:"user_id"`
	WakeTime          string     `json:"wake_time,omitempty"`
	BreakfastTime     string     `json:"breakfast_time,omitempty"`
	LunchTime         string     `json:"lunch_time,omitempty"`
	DinnerTime        string     `json:"dinner_time,omitempty"`
	ScheduleChangedAt *time.Time `json:"schedule_changed_at,omitempty"`
}

// TriggerTime returns the configured raw time string for a category.
func (p *UserScheduleProfile) TriggerTime(category TriggerCategory) string {
	switch category {
	case TriggerWakeUp:
		return p.WakeTime
	case TriggerBreakfast:
		return p.BreakfastTime
	case TriggerLunch:
		return p.LunchTime
	case TriggerDinner:
		return p.DinnerTime
	}
	return ""
}

// ChangedOn reports whether the schedule was (re)configured on the given
// calendar day in loc.
func (p *UserScheduleProfile) ChangedOn(day time.Time, loc *time.Location) bool {
	if p.ScheduleChangedAt == nil {
		return false
	}
	changed := p.ScheduleChangedAt.In(loc)
	y1, m1, d1 := changed.Date()
	y2, m2, d2 := day.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
