package replace_preferences

import (
	"fmt"

	"github.com/courtbook/booking-engine/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Principal.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.OrganisationID <= 0 {
		return fmt.Errorf("%w: organisationID must be positive", ErrInvalidInput)
	}

	if len(req.Entries) > domain.MaxPreferences {
		return fmt.Errorf("%w: at most %d entries allowed, got %d", ErrInvalidInput, domain.MaxPreferences, len(req.Entries))
	}

	for i, e := range req.Entries {
		if err := validateEntry(e); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrInvalidInput, i+1, err)
		}
	}

	return nil
}

// validateEntry валидирует одну запись списка предпочтений
func validateEntry(e Entry) error {
	allowed := false
	for _, d := range domain.DefaultSlotDurations {
		if e.DurationMinutes == d {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("duration %d minutes is not bookable", e.DurationMinutes)
	}

	if e.SiteID != nil && *e.SiteID <= 0 {
		return fmt.Errorf("siteID must be positive")
	}
	if e.ResourceID != nil && *e.ResourceID <= 0 {
		return fmt.Errorf("resourceID must be positive")
	}

	if e.DayOfWeek != nil && (*e.DayOfWeek < 0 || *e.DayOfWeek > 6) {
		return fmt.Errorf("dayOfWeek must be in [0, 6], got %d", *e.DayOfWeek)
	}

	if e.StartTime != nil {
		if err := e.StartTime.Validate(); err != nil {
			return fmt.Errorf("invalid startTime: %v", err)
		}
	}

	return nil
}
