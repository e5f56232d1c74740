package domain

import (
	"fmt"
	"time"

	"github.com/courtbook/booking-engine/pkg/types"
)

// GridSlot is one cell of the daily availability grid for a resource
type GridSlot struct {
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
}

// ConcreteSlot is a fully specified sellable slot: resource x date x start x
// duration. Produced by expanding preference wildcards; consumed by the solver.
type ConcreteSlot struct {
	ResourceID      int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
}

// Key returns a stable identity for the slot's starting cell.
// Two slots with the same key contend for the same court time.
func (s ConcreteSlot) Key() string {
	return fmt.Sprintf("%d/%s/%s", s.ResourceID, s.BookingDate.Format(DateFormat), s.StartTime)
}

// End returns the slot end time
func (s ConcreteSlot) End() (types.TimeString, error) {
	return s.StartTime.AddMinutes(s.DurationMinutes)
}
