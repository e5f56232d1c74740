package paymentservice

// ReservationIntent платежное намерение по подтвержденному бронированию.
// Само списание и кредитный леджер живут в биллинге, ядро только сообщает суммы
type ReservationIntent struct {
	ReservationID int64  `json:"reservation_id"`
	UserID        int64  `json:"user_id"`
	AmountPence   int    `json:"amount_pence"`
	PriceBand     string `json:"price_band"`
	BookingDate   string `json:"booking_date"`
	Description   string `json:"description"`
}

// CancellationCredit намерение вернуть средства после отмены в срок
type CancellationCredit struct {
	ReservationID int64 `json:"reservation_id"`
	UserID        int64 `json:"user_id"`
	AmountPence   int   `json:"amount_pence"`
}

// IntentResponse ответ биллинга на отправленное намерение
type IntentResponse struct {
	IntentID string `json:"intent_id"`
	Accepted bool   `json:"accepted"`
}

// ErrorResponse модель ошибки от PaymentService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
