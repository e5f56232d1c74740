package cancel_booking

import (
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/types"
)

// Request модель запроса на отмену бронирования
type Request struct {
	Principal     domain.Principal
	ReservationID int64
	Reason        *string // Причина отмены (опционально)
}

// Response модель ответа на запрос отмены.
// Accepted=false с нарушением дедлайна - бизнес-исход, не ошибка
type Response struct {
	Accepted   bool
	Violations []domain.Violation

	ID          int64
	ResourceID  int64
	BookingDate time.Time
	StartTime   types.TimeString
	Status      string
	CancelledAt *time.Time
}
