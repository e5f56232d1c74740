package domain

import (
	"time"

	"github.com/courtbook/booking-engine/pkg/types"
)

// Allocation is the per-member outcome of one contention window.
// Immutable once the window reaches "allocated". A nil slot means the member
// was explicitly unassigned, not an error.
type Allocation struct {
	ID       int64
	WindowID int64
	UserID   int64

	// Rank of the satisfied preference entry (1-based); nil if unassigned
	PreferenceRank *int

	// The assigned concrete slot; all nil if unassigned
	ResourceID  *int64
	BookingDate *time.Time
	StartTime   *types.TimeString
	DurationMin *int

	// Effective weight the solver used (rank decay x tier weight x history boost)
	Weight float64

	ReservationID *int64 // set once the batch commit created the reservation

	CreatedAt time.Time
}

// IsAssigned returns true if the member received a slot in this window
func (a *Allocation) IsAssigned() bool {
	return a.ResourceID != nil
}
