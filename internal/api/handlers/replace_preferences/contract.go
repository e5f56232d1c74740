package replace_preferences

import (
	"context"

	replacePreferences "github.com/courtbook/booking-engine/internal/usecase/replace_preferences"
)

// ReplacePreferencesUseCase интерфейс use case замены списка предпочтений
type ReplacePreferencesUseCase interface {
	Execute(ctx context.Context, req *replacePreferences.Request) (*replacePreferences.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
