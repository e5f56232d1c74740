package rules

import (
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/types"
)

// ValidateBookingInput все данные, нужные для проверки правил одного бронирования.
// Валидатор чистый: счетчики и пересечения собирает вызывающий use case
// внутри своей транзакции
type ValidateBookingInput struct {
	Entitlement *domain.Entitlement

	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int

	// Подтвержденные будущие бронирования участника (включая сегодня)
	FutureConfirmedCount int

	// Сумма минут подтвержденных бронирований участника на дату слота
	SameDayConfirmedMinutes int

	// Подтвержденные бронирования корта на дату, пересекающиеся со слотом
	Conflicting []*domain.Reservation
}
