package get_booking

import (
	"context"

	"github.com/courtbook/booking-engine/internal/domain"
)

// ReservationService интерфейс сервиса чтения бронирований
type ReservationService interface {
	GetByID(ctx context.Context, principal domain.Principal, id int64) (*domain.Reservation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
