package domain

import (
	"time"

	"github.com/courtbook/booking-engine/pkg/types"
)

// PreferenceEntry is one ranked entry in a member's preference list for the
// fairness allocation window. Nil fields mean "any".
type PreferenceEntry struct {
	ID             int64
	UserID         int64
	OrganisationID int64
	Priority       int // 1 = first choice

	SiteID     *int64
	ResourceID *int64
	DayOfWeek  *int // 0=Monday .. 6=Sunday
	StartTime  *types.TimeString

	DurationMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchesResource returns true if the entry accepts the given resource
func (p *PreferenceEntry) MatchesResource(r *Resource) bool {
	if p.ResourceID != nil && *p.ResourceID != r.ID {
		return false
	}
	if p.SiteID != nil && *p.SiteID != r.SiteID {
		return false
	}
	return true
}

// MatchesDate returns true if the entry accepts the given calendar date
func (p *PreferenceEntry) MatchesDate(date time.Time) bool {
	if p.DayOfWeek == nil {
		return true
	}
	// time.Weekday: 0=Sunday; preference: 0=Monday
	return int(date.Weekday()+6)%7 == *p.DayOfWeek
}

// MatchesStart returns true if the entry accepts the given start time
func (p *PreferenceEntry) MatchesStart(start types.TimeString) bool {
	return p.StartTime == nil || *p.StartTime == start
}
