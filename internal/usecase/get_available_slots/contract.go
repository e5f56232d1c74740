package get_available_slots

import (
	"context"
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetForResourceAndDate(ctx context.Context, resourceID int64, date time.Time) ([]*domain.Reservation, error)
}

// ResourceRepository интерфейс репозитория кортов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	GetSiteByID(ctx context.Context, id int64) (*domain.Site, error)
}

// ScheduleService интерфейс сервиса расписания
type ScheduleService interface {
	ClosingTime(res *domain.Resource, site *domain.Site, date time.Time, loc *time.Location) types.TimeString
	BuildGrid(open, close types.TimeString, durationMinutes int) ([]domain.GridSlot, error)
	MarkConflicts(grid []domain.GridSlot, existing []*domain.Reservation)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
