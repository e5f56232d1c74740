package domain

import (
	"time"

	"github.com/courtbook/booking-engine/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// ReservationSource shows which path created the reservation
type ReservationSource string

const (
	SourceMember   ReservationSource = "member"   // Self-service FCFS booking
	SourceAdmin    ReservationSource = "admin"    // Created by a club admin
	SourceFairness ReservationSource = "fairness" // Allocated by a fairness window
)

// Reservation books a resource (court) for a member on a specific date and time.
// The core transactional entity: no two confirmed reservations for the same
// resource may overlap on the same date.
type Reservation struct {
	ID             int64
	OrganisationID int64
	ResourceID     int64
	UserID         int64

	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int

	Status ReservationStatus
	Source ReservationSource

	CancellationReason *string
	CancelledAt        *time.Time

	// Priced reservation intent data (payment itself lives elsewhere)
	AmountPence int
	PriceBand   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsConfirmed returns true if the reservation is active
func (r *Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

// CanBeCancelled returns true if the reservation can still be cancelled
// (deadline checks are a separate rule)
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusConfirmed
}

// Overlaps returns true if the reservation strictly overlaps the half-open
// interval [start, end) on the same date. Touching boundaries do not overlap.
func (r *Reservation) Overlaps(start, end types.TimeString) bool {
	return r.StartTime.IsBefore(end) && r.EndTime.IsAfter(start)
}

// ReservationsFilter фильтр для выборки бронирований
type ReservationsFilter struct {
	OrganisationID int64
	ResourceID     *int64             // Фильтр по корту (опционально)
	UserID         *int64             // Фильтр по участнику (опционально)
	StartDate      *time.Time         // Начало периода (опционально)
	EndDate        *time.Time         // Конец периода (опционально)
	Status         *ReservationStatus // Фильтр по статусу (опционально)
}
