package get_current_window

import (
	"context"

	"github.com/courtbook/booking-engine/internal/domain"
)

// WindowService интерфейс сервиса чтения окон аллокации
type WindowService interface {
	GetCurrent(ctx context.Context, orgID int64) (*domain.ContentionWindow, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
