package create_booking

import (
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	createBooking "github.com/courtbook/booking-engine/internal/usecase/create_booking"
	"github.com/courtbook/booking-engine/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ResourceID      int64  `json:"resourceId"`
	BookingDate     string `json:"bookingDate"` // "2026-09-13"
	StartTime       string `json:"startTime"`   // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
}

// BookingResponse HTTP response model.
// accepted=false приходит вместе с полным списком нарушений правил
type BookingResponse struct {
	Accepted   bool               `json:"accepted"`
	Violations []domain.Violation `json:"violations,omitempty"`

	ID              int64  `json:"id,omitempty"`
	ResourceID      int64  `json:"resourceId,omitempty"`
	UserID          int64  `json:"userId,omitempty"`
	BookingDate     string `json:"bookingDate,omitempty"`
	StartTime       string `json:"startTime,omitempty"`
	EndTime         string `json:"endTime,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Status          string `json:"status,omitempty"`
	Source          string `json:"source,omitempty"`
	AmountPence     int    `json:"amountPence,omitempty"`
	PriceBand       string `json:"priceBand,omitempty"`
	CreatedAt       string `json:"createdAt,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(principal domain.Principal, orgID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Principal:       principal,
		OrganisationID:  orgID,
		ResourceID:      r.ResourceID,
		Date:            bookingDate,
		StartTime:       startTime,
		DurationMinutes: r.DurationMinutes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	if !resp.Accepted {
		return &BookingResponse{
			Accepted:   false,
			Violations: resp.Violations,
		}
	}

	return &BookingResponse{
		Accepted:        true,
		ID:              resp.ID,
		ResourceID:      resp.ResourceID,
		UserID:          resp.UserID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Source:          resp.Source,
		AmountPence:     resp.AmountPence,
		PriceBand:       resp.PriceBand,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
