package replace_preferences

import (
	"github.com/courtbook/booking-engine/internal/domain"
	replacePreferences "github.com/courtbook/booking-engine/internal/usecase/replace_preferences"
	"github.com/courtbook/booking-engine/pkg/types"
)

// PreferenceEntryRequest одна запись списка предпочтений. Null-поля - "любой"
type PreferenceEntryRequest struct {
	SiteID          *int64  `json:"siteId,omitempty"`
	ResourceID      *int64  `json:"resourceId,omitempty"`
	DayOfWeek       *int    `json:"dayOfWeek,omitempty"` // 0=понедельник .. 6=воскресенье
	StartTime       *string `json:"startTime,omitempty"` // "HH:MM"
	DurationMinutes int     `json:"durationMinutes"`
}

// ReplacePreferencesRequest HTTP request model: список заменяется целиком
type ReplacePreferencesRequest struct {
	Entries []PreferenceEntryRequest `json:"entries"`
}

// PreferenceEntryResponse сохраненная запись списка предпочтений
type PreferenceEntryResponse struct {
	Priority        int     `json:"priority"`
	SiteID          *int64  `json:"siteId,omitempty"`
	ResourceID      *int64  `json:"resourceId,omitempty"`
	DayOfWeek       *int    `json:"dayOfWeek,omitempty"`
	StartTime       *string `json:"startTime,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
}

// PreferencesResponse актуальный список предпочтений
type PreferencesResponse struct {
	Entries []PreferenceEntryResponse `json:"entries"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReplacePreferencesRequest) ToUseCaseRequest(principal domain.Principal, orgID int64) (*replacePreferences.Request, error) {
	entries := make([]replacePreferences.Entry, 0, len(r.Entries))
	for _, e := range r.Entries {
		var start *types.TimeString
		if e.StartTime != nil {
			ts, err := types.NewTimeStringFromString(*e.StartTime)
			if err != nil {
				return nil, err
			}
			start = &ts
		}
		entries = append(entries, replacePreferences.Entry{
			SiteID:          e.SiteID,
			ResourceID:      e.ResourceID,
			DayOfWeek:       e.DayOfWeek,
			StartTime:       start,
			DurationMinutes: e.DurationMinutes,
		})
	}

	return &replacePreferences.Request{
		Principal:      principal,
		OrganisationID: orgID,
		Entries:        entries,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *replacePreferences.Response) *PreferencesResponse {
	entries := make([]PreferenceEntryResponse, 0, len(resp.Entries))
	for _, e := range resp.Entries {
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
