package windows

import "errors"

var (
	// ErrWindowNotFound возвращается, когда окно не найдено
	ErrWindowNotFound = errors.New("windows.service: contention window not found")

	// ErrResultNotReady возвращается, когда результат распределения еще не готов
	ErrResultNotReady = errors.New("windows.service: allocation result is not ready")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("windows.service: internal error")
)
