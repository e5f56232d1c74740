package get_user_bookings

import (
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
)

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              int64  `json:"id"`
	ResourceID      int64  `json:"resourceId"`
	BookingDate     string `json:"bookingDate"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
	Source          string `json:"source"`
	AmountPence     int    `json:"amountPence"`
	PriceBand       string `json:"priceBand"`
	CreatedAt       string `json:"createdAt"`
}

// UserBookingsResponse список бронирований участника
type UserBookingsResponse struct {
	Bookings []ReservationResponse `json:"bookings"`
}

// FromDomain конвертирует список доменных моделей в HTTP response
func FromDomain(list []*domain.Reservation) *UserBookingsResponse {
	bookings := make([]ReservationResponse, 0, len(list))
	for _, res := range list {
		bookings = append(bookings, ReservationResponse{
			ID:              res.ID,
			ResourceID:      res.ResourceID,
			BookingDate:     res.BookingDate.Format(domain.DateFormat),
			StartTime:       res.StartTime.String(),
			EndTime:         res.EndTime.String(),
			DurationMinutes: res.DurationMinutes,
			Status:          string(res.Status),
			Source:          string(res.Source),
			AmountPence:     res.AmountPence,
			PriceBand:       res.PriceBand,
			CreatedAt:       res.CreatedAt.Format(time.RFC3339),
		})
	}
	return &UserBookingsResponse{Bookings: bookings}
}
