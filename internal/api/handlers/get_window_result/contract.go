package get_window_result

import (
	"context"

	"github.com/courtbook/booking-engine/internal/domain"
)

// WindowService интерфейс сервиса чтения окон аллокации
type WindowService interface {
	GetResult(ctx context.Context, windowID int64) (*domain.ContentionWindow, []*domain.Allocation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
