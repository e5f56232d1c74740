package paymentservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")

	// ErrIntentRejected возвращается, когда биллинг отклонил платежное намерение
	ErrIntentRejected = errors.New("paymentservice client: intent rejected")
)
