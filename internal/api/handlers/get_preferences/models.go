package get_preferences

import "github.com/courtbook/booking-engine/internal/domain"

// PreferenceEntryResponse сохраненная запись списка предпочтений
type PreferenceEntryResponse struct {
	Priority        int     `json:"priority"`
	SiteID          *int64  `json:"siteId,omitempty"`
	ResourceID      *int64  `json:"resourceId,omitempty"`
	DayOfWeek       *int    `json:"dayOfWeek,omitempty"`
	StartTime       *string `json:"startTime,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
}

// PreferencesResponse актуальный список предпочтений участника
type PreferencesResponse struct {
	Entries []PreferenceEntryResponse `json:"entries"`
}

// FromDomain конвертирует список доменных моделей в HTTP response
func FromDomain(list []*domain.PreferenceEntry) *PreferencesResponse {
	entries := make([]PreferenceEntryResponse, 0, len(list))
	for _, e := range list {
		var start *string
		if e.StartTime != nil {
			v := e.StartTime.String()
			start = &v
		}
		entries = append(entries, PreferenceEntryResponse{
			Priority:        e.Priority,
			SiteID:          e.SiteID,
			ResourceID:      e.ResourceID,
			DayOfWeek:       e.DayOfWeek,
			StartTime:       start,
			DurationMinutes: e.DurationMinutes,
		})
	}
	return &PreferencesResponse{Entries: entries}
}
