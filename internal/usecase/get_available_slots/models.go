package get_available_slots

import (
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/types"
)

// Request модель запроса доступных слотов
type Request struct {
	ResourceID      int64
	Date            time.Time
	DurationMinutes int // 0 - длительность по умолчанию (60)
}

// Response сетка слотов корта на дату
type Response struct {
	ResourceID      int64
	ResourceName    string
	Date            time.Time
	DurationMinutes int
	OpenTime        types.TimeString
	CloseTime       types.TimeString
	Slots           []domain.GridSlot
}
