package create_booking

import "errors"

var (
	// ErrResourceNotFound возвращается, когда корт не найден или неактивен
	ErrResourceNotFound = errors.New("create_booking: resource not found")

	// ErrMembershipNotFound возвращается, когда у участника нет членства
	ErrMembershipNotFound = errors.New("create_booking: membership not found")

	// ErrSlotTaken возвращается, когда слот перехвачен конкурентным запросом
	// на коммите (ограничение уникальности в БД)
	ErrSlotTaken = errors.New("create_booking: slot already taken")

	// ErrWindowActive возвращается при попытке FCFS-бронирования на дату,
	// которую сейчас распределяет окно честной аллокации
	ErrWindowActive = errors.New("create_booking: date is under fairness allocation")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
