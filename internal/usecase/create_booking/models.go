package create_booking

import (
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Principal       domain.Principal // Аутентифицированный участник
	OrganisationID  int64            // ID организации
	ResourceID      int64            // ID корта
	Date            time.Time        // Дата бронирования (без времени)
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // Длительность (60 или 120)
}

// Response модель ответа на запрос бронирования.
// Accepted=false с непустым списком нарушений - бизнес-исход, не ошибка:
// клиент получает полный список причин отказа за один запрос
type Response struct {
	Accepted   bool
	Violations []domain.Violation

	ID              int64
	ResourceID      int64
	UserID          int64
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string
	Source          string

	AmountPence int
	PriceBand   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

