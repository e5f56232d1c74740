package replace_preferences

import (
	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/types"
)

// Entry одна запись списка предпочтений. Nil-поля означают "любой"
type Entry struct {
	SiteID          *int64
	ResourceID      *int64
	DayOfWeek       *int // 0=понедельник .. 6=воскресенье
	StartTime       *types.TimeString
	DurationMinutes int
}

// Request модель запроса на замену списка предпочтений.
// Список заменяется целиком: частичных правок нет, последняя запись
// до дедлайна окна побеждает
type Request struct {
	Principal      domain.Principal
	OrganisationID int64
	Entries        []Entry
}

// Response актуальный список предпочтений после замены
type Response struct {
	Entries []*domain.PreferenceEntry
}
