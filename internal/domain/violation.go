package domain

import "fmt"

// Machine-readable rule codes, stable across releases
const (
	RuleAdvanceWindow        = "advance_window"
	RuleSlotDuration         = "slot_duration"
	RulePastBooking          = "past_booking"
	RuleMaxConcurrent        = "max_concurrent"
	RuleMaxDailyMinutes      = "max_daily_minutes"
	RuleCourtConflict        = "court_conflict"
	RuleCancellationDeadline = "cancellation_deadline"
)

// Violation is one failed booking rule: a stable machine code plus a
// human-readable message. The validator always returns the complete set,
// never just the first failure.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// FormatDuration печатает минуты как часы, когда значение кратно 60
// 120 -> "2 hours", 60 -> "1 hour", 90 -> "90 minutes"
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0 minutes"
	}
	if minutes%60 == 0 {
		hours := minutes / 60
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d minutes", minutes)
}
