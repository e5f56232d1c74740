package cancel_booking

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("cancel_booking: reservation not found")

	// ErrForbidden возвращается, когда бронирование принадлежит другому участнику
	ErrForbidden = errors.New("cancel_booking: reservation belongs to another user")

	// ErrAlreadyCancelled возвращается при повторной отмене
	ErrAlreadyCancelled = errors.New("cancel_booking: reservation is already cancelled")

	// ErrMembershipNotFound возвращается, когда у участника нет членства
	ErrMembershipNotFound = errors.New("cancel_booking: membership not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
