package schedule

import "errors"

var (
	// ErrInvalidOpenHours возвращается, когда часы работы не образуют интервал
	ErrInvalidOpenHours = errors.New("schedule.service: invalid operating hours")
)
