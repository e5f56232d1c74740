package memberservice

import "errors"

var (
	// ErrMembershipNotFound возвращается, когда участник или его тариф не найдены
	ErrMembershipNotFound = errors.New("membership not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("memberservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("memberservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что MemberService недоступен и следует использовать лимиты тарифа по умолчанию
	ErrServiceDegraded = errors.New("memberservice unavailable: graceful degradation applied")
)
