package scheduler

import (
	"context"
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/internal/usecase/run_allocation"
)

// WindowRepository интерфейс репозитория окон аллокации
type WindowRepository interface {
	Create(ctx context.Context, w *domain.ContentionWindow) (*domain.ContentionWindow, error)
	GetActive(ctx context.Context, orgID int64) (*domain.ContentionWindow, error)
	TransitionState(ctx context.Context, id int64, from, to domain.WindowState) error
	IncrementAttempts(ctx context.Context, id int64) (int, error)
}

// AllocationRunner интерфейс прогона распределения окна
type AllocationRunner interface {
	Execute(ctx context.Context, req *run_allocation.Request) (*run_allocation.Response, error)
}

// Metrics интерфейс метрик распределения
type Metrics interface {
	IncAllocationRun(service, result string)
	ObserveAllocationDuration(service string, seconds float64)
	AddAllocationOutcome(service, outcome string, count int)
	IncAllocationRetry(service string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
