package domain

// Slot grid constants
const (
	SlotStepMinutes = 60      // grid step: slots start on the hour
	DayOpenTime     = "07:00" // daily open for all courts
	MaxCloseTime    = "21:00" // hard closing cap (floodlit close)
)

// DefaultSlotDurations допустимые длительности бронирования по умолчанию
var DefaultSlotDurations = []int{60, 120}

// Default tier values, used when the member service omits a field
const (
	DefaultAdvanceBookingDays        = 7
	DefaultMaxConcurrentBookings     = 7
	DefaultMaxDailyMinutes           = 120
	DefaultCancellationDeadlineHours = 24
	DefaultWindowOpenTime            = "21:00"
	DefaultFairnessWeight            = 1.0
)

// Preference list limits
const (
	MaxPreferences = 10
)

// Fairness boost parameters: each consecutive unassigned window adds
// BoostPerMiss to the member's multiplier, capped at MaxFairnessBoost.
// The streak resets to zero on any assignment.
const (
	BoostPerMiss     = 0.5
	MaxFairnessBoost = 3.0
)

// Rank weight decay: rank i contributes RankDecay^(i-1)
const RankDecay = 0.5

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

const (
	MaxCancellationReasonLength = 500
)
