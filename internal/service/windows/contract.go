package windows

import (
	"context"

	"github.com/courtbook/booking-engine/internal/domain"
)

// WindowRepository интерфейс репозитория окон аллокации
type WindowRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ContentionWindow, error)
	GetActive(ctx context.Context, orgID int64) (*domain.ContentionWindow, error)
	GetLatest(ctx context.Context, orgID int64) (*domain.ContentionWindow, error)
	GetAllocationsByWindow(ctx context.Context, windowID int64) ([]*domain.Allocation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}
