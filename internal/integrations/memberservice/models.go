package memberservice

// Membership модель членства из MemberService
type Membership struct {
	UserID   int64  `json:"user_id"`
	TierID   int64  `json:"tier_id"`
	TierName string `json:"tier_name"`
	IsActive bool   `json:"is_active"`

	AdvanceBookingDays        int    `json:"advance_booking_days"`
	MaxConcurrentBookings     int    `json:"max_concurrent_bookings"`
	MaxDailyMinutes           int    `json:"max_daily_minutes"`
	CancellationDeadlineHours int    `json:"cancellation_deadline_hours"`
	SlotDurationsMinutes      []int  `json:"slot_durations_minutes"`
	WindowOpenTime            string `json:"window_open_time"`

	FairnessEligible bool    `json:"fairness_eligible"`
	FairnessWeight   float64 `json:"fairness_weight"`

	// Почасовые тарифы в пенсах по ценовым диапазонам
	EarlyFeePence      int `json:"early_fee_pence"`
	OffpeakFeePence    int `json:"offpeak_fee_pence"`
	PeakFeePence       int `json:"peak_fee_pence"`
	FloodlightFeePence int `json:"floodlight_fee_pence"`
}

// ErrorResponse модель ошибки от MemberService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
