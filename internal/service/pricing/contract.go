package pricing

import (
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/types"
)

// DuskProvider отдает час наступления темноты на площадке
type DuskProvider interface {
	Dusk(site *domain.Site, date time.Time, loc *time.Location) types.TimeString
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
