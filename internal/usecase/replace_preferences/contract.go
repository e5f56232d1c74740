package replace_preferences

import (
	"context"

	"github.com/courtbook/booking-engine/internal/domain"
)

// PreferenceRepository интерфейс репозитория предпочтений
type PreferenceRepository interface {
	ReplaceForUser(ctx context.Context, userID, orgID int64, entries []*domain.PreferenceEntry) error
	GetByUser(ctx context.Context, userID, orgID int64) ([]*domain.PreferenceEntry, error)
}

// ResourceRepository интерфейс репозитория кортов
type ResourceRepository interface {
	GetActiveByOrg(ctx context.Context, orgID int64) ([]*domain.Resource, error)
}

// WindowRepository интерфейс репозитория окон аллокации
type WindowRepository interface {
	GetActive(ctx context.Context, orgID int64) (*domain.ContentionWindow, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
