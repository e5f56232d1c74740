package preferences

import (
	"context"

	"github.com/courtbook/booking-engine/internal/domain"
)

// PreferenceRepository интерфейс репозитория предпочтений
type PreferenceRepository interface {
	GetByUser(ctx context.Context, userID, orgID int64) ([]*domain.PreferenceEntry, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}
