package pricing

import "errors"

var (
	// ErrInvalidSlot возвращается, когда слот не образует корректный интервал
	ErrInvalidSlot = errors.New("pricing.service: invalid slot interval")
)
