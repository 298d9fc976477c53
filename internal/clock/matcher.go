// Package clock normalizes user-reported trigger times and matches them
// against the wall clock at minute granularity in a fixed reference timezone.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/replantlab/missiond/internal/domain"
)

// Matcher evaluates HH:MM trigger times in a single reference location.
// Every user is matched in the same location regardless of device locale.
type Matcher struct {
	loc *time.Location
}

// NewMatcher loads the reference timezone by name.
func NewMatcher(tzName string) (*Matcher, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("load reference timezone %q: %w", tzName, err)
	}
	return &Matcher{loc: loc}, nil
}

// Location returns the reference location.
func (m *Matcher) Location() *time.Location {
	return m.loc
}

// Now returns the current wall clock in the reference location.
func (m *Matcher) Now() time.Time {
	return time.Now().In(m.loc)
}

// Today truncates t to its calendar day in the reference location.
func (m *Matcher) Today(t time.Time) time.Time {
	local := t.In(m.loc)
	y, mo, d := local.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, m.loc)
}

// Matches reports whether the normalized trigger time equals the current
// minute of t in the reference location.
func (m *Matcher) Matches(normalized string, t time.Time) bool {
	return normalized == t.In(m.loc).Format("15:04")
}

// Normalize canonicalizes a user-reported trigger time to zero-padded HH:MM.
// Accepts both "7:30" and "07:30"; anything else is rejected with
// ErrInvalidTimeFormat.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	parts := strings.Split(trimmed, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidTimeFormat, raw)
	}

	hourPart, minutePart := parts[0], parts[1]
	if len(hourPart) < 1 || len(hourPart) > 2 || len(minutePart) != 2 {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidTimeFormat, raw)
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidTimeFormat, raw)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidTimeFormat, raw)
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// Variants returns the stored representations of a normalized HH:MM time.
// Legacy rows keep the unpadded H:MM form, so lookups must match both.
func Variants(normalized string) []string {
	if len(normalized) == 5 && normalized[0] == '0' {
		return []string{normalized, normalized[1:]}
	}
	return []string{normalized}
}
