package get_current_window

import (
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
)

// WindowResponse HTTP response model окна аллокации
type WindowResponse struct {
	ID         int64  `json:"id"`
	OpenAt     string `json:"openAt"`
	CloseAt    string `json:"closeAt"`
	TargetDate string `json:"targetDate"`
	State      string `json:"state"`
}

// FromDomain конвертирует доменную модель в HTTP response
func FromDomain(w *domain.ContentionWindow) *WindowResponse {
	return &WindowResponse{
		ID:         w.ID,
		OpenAt:     w.OpenAt.Format(time.RFC3339),
		CloseAt:    w.CloseAt.Format(time.RFC3339),
		TargetDate: w.TargetDate.Format(domain.DateFormat),
		State:      string(w.State),
	}
}
