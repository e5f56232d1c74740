package get_booking

import (
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
)

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              int64   `json:"id"`
	ResourceID      int64   `json:"resourceId"`
	UserID          int64   `json:"userId"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Source          string  `json:"source"`
	AmountPence     int     `json:"amountPence"`
	PriceBand       string  `json:"priceBand"`
	CancelledAt     *string `json:"cancelledAt,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// FromDomain конвертирует доменную модель в HTTP response
func FromDomain(res *domain.Reservation) *ReservationResponse {
	var cancelledAt *string
	if res.CancelledAt != nil {
		v := res.CancelledAt.Format(time.RFC3339)
		cancelledAt = &v
	}

	return &ReservationResponse{
		ID:              res.ID,
		ResourceID:      res.ResourceID,
		UserID:          res.UserID,
		BookingDate:     res.BookingDate.Format(domain.DateFormat),
		StartTime:       res.StartTime.String(),
		EndTime:         res.EndTime.String(),
		DurationMinutes: res.DurationMinutes,
		Status:          string(res.Status),
		Source:          string(res.Source),
		AmountPence:     res.AmountPence,
		PriceBand:       res.PriceBand,
		CancelledAt:     cancelledAt,
		CreatedAt:       res.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       res.UpdatedAt.Format(time.RFC3339),
	}
}
