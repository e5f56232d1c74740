package get_window_result

import (
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
)

// AllocationResponse итог распределения для одного участника.
// Отсутствие слота (assigned=false) - явный исход, не ошибка
type AllocationResponse struct {
	UserID         int64   `json:"userId"`
	Assigned       bool    `json:"assigned"`
	PreferenceRank *int    `json:"preferenceRank,omitempty"`
	ResourceID     *int64  `json:"resourceId,omitempty"`
	BookingDate    *string `json:"bookingDate,omitempty"`
	StartTime      *string `json:"startTime,omitempty"`
	DurationMin    *int    `json:"durationMinutes,omitempty"`
	ReservationID  *int64  `json:"reservationId,omitempty"`
}

// WindowResultResponse окно вместе с итогами распределения
type WindowResultResponse struct {
	WindowID    int64                `json:"windowId"`
	TargetDate  string               `json:"targetDate"`
	State       string               `json:"state"`
	AllocatedAt string               `json:"allocatedAt"`
	Allocations []AllocationResponse `json:"allocations"`
}

// FromDomain конвертирует окно и итоги в HTTP response
func FromDomain(w *domain.ContentionWindow, allocations []*domain.Allocation) *WindowResultResponse {
	list := make([]AllocationResponse, 0, len(allocations))
	for _, a := range allocations {
		var bookingDate, startTime *string
		if a.BookingDate != nil {
			v := a.BookingDate.Format(domain.DateFormat)
			bookingDate = &v
		}
		if a.StartTime != nil {
			v := a.StartTime.String()
			startTime = &v
		}
		list = append(list, AllocationResponse{
			UserID:         a.UserID,
			Assigned:       a.IsAssigned(),
			PreferenceRank: a.PreferenceRank,
			ResourceID:     a.ResourceID,
			BookingDate:    bookingDate,
			StartTime:      startTime,
			DurationMin:    a.DurationMin,
			ReservationID:  a.ReservationID,
		})
	}

	return &WindowResultResponse{
		WindowID:    w.ID,
		TargetDate:  w.TargetDate.Format(domain.DateFormat),
		State:       string(w.State),
		AllocatedAt: w.UpdatedAt.Format(time.RFC3339),
		Allocations: list,
	}
}
