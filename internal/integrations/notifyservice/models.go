package notifyservice

// AllocationOutcome результат распределения для одного участника
type AllocationOutcome struct {
	UserID      int64  `json:"user_id"`
	WindowID    int64  `json:"window_id"`
	Assigned    bool   `json:"assigned"`
	ResourceID  *int64 `json:"resource_id,omitempty"`
	BookingDate string `json:"booking_date,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	DurationMin int    `json:"duration_minutes,omitempty"`
}

// ErrorResponse модель ошибки от NotifyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
