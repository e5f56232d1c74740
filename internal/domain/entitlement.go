package domain

// Role роль участника внутри организации, приходит от identity-коллаборатора
type Role string

const (
	RoleMember Role = "member"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
)

// Entitlement describes what a membership tier allows.
// Read-only to the engine; sourced from the member service.
type Entitlement struct {
	TierID   int64
	TierName string

	AdvanceBookingDays        int
	MaxConcurrentBookings     int
	MaxDailyMinutes           int
	CancellationDeadlineHours int
	SlotDurationsMinutes      []int  // allowed durations, e.g. [60, 120]
	WindowOpenTime            string // "HH:MM", local opening instant of the advance horizon

	// Fairness window participation
	FairnessEligible bool
	FairnessWeight   float64

	// Per-hour booking fees in pence, by price band
	EarlyFeePence      int
	OffpeakFeePence    int
	PeakFeePence       int
	FloodlightFeePence int
}

// AllowsDuration returns true if the tier permits slots of the given length
func (e *Entitlement) AllowsDuration(minutes int) bool {
	durations := e.SlotDurationsMinutes
	if len(durations) == 0 {
		durations = DefaultSlotDurations
	}
	for _, d := range durations {
		if d == minutes {
			return true
		}
	}
	return false
}

// Principal аутентифицированный участник запроса: {member_id, tier, role}
// Ядро доверяет этим данным без повторной проверки
type Principal struct {
	UserID int64
	TierID int64
	Role   Role
}
