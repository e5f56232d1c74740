package get_available_slots

import (
	"github.com/courtbook/booking-engine/internal/domain"
	getAvailableSlots "github.com/courtbook/booking-engine/internal/usecase/get_available_slots"
)

// SlotResponse одна ячейка сетки доступности
type SlotResponse struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

// AvailableSlotsResponse сетка слотов корта на дату
type AvailableSlotsResponse struct {
	ResourceID      int64          `json:"resourceId"`
	ResourceName    string         `json:"resourceName"`
	Date            string         `json:"date"`
	DurationMinutes int            `json:"durationMinutes"`
	OpenTime        string         `json:"openTime"`
	CloseTime       string         `json:"closeTime"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:   s.StartTime.String(),
			EndTime:     s.EndTime.String(),
			IsAvailable: s.IsAvailable,
		})
	}

	return &AvailableSlotsResponse{
		ResourceID:      resp.ResourceID,
		ResourceName:    resp.ResourceName,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		OpenTime:        resp.OpenTime.String(),
		CloseTime:       resp.CloseTime.String(),
		Slots:           slots,
	}
}
