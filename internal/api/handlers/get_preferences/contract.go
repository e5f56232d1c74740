package get_preferences

import (
	"context"

	"github.com/courtbook/booking-engine/internal/domain"
)

// PreferenceService интерфейс сервиса чтения предпочтений
type PreferenceService interface {
	GetByUser(ctx context.Context, userID, orgID int64) ([]*domain.PreferenceEntry, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
