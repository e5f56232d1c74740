package get_user_bookings

import (
	"context"

	"github.com/courtbook/booking-engine/internal/domain"
)

// ReservationService интерфейс сервиса чтения бронирований
type ReservationService interface {
	GetByUser(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
