package cancel_booking

import (
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	cancelBooking "github.com/courtbook/booking-engine/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelBookingResponse HTTP response model.
// accepted=false с нарушением дедлайна - бизнес-ответ, не ошибка
type CancelBookingResponse struct {
	Accepted   bool               `json:"accepted"`
	Violations []domain.Violation `json:"violations,omitempty"`

	ID          int64   `json:"id,omitempty"`
	ResourceID  int64   `json:"resourceId,omitempty"`
	BookingDate string  `json:"bookingDate,omitempty"`
	StartTime   string  `json:"startTime,omitempty"`
	Status      string  `json:"status,omitempty"`
	CancelledAt *string `json:"cancelledAt,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	if !resp.Accepted {
		return &CancelBookingResponse{
			Accepted:   false,
			Violations: resp.Violations,
		}
	}

	var cancelledAt *string
	if resp.CancelledAt != nil {
		v := resp.CancelledAt.Format(time.RFC3339)
		cancelledAt = &v
	}

	return &CancelBookingResponse{
		Accepted:    true,
		ID:          resp.ID,
		ResourceID:  resp.ResourceID,
		BookingDate: resp.BookingDate.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		Status:      resp.Status,
		CancelledAt: cancelledAt,
	}
}
