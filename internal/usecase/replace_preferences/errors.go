package replace_preferences

import "errors"

var (
	// ErrWindowClosed возвращается при записи предпочтений после дедлайна
	// окна: снапшот уже снят, изменения не попадут в распределение
	ErrWindowClosed = errors.New("replace_preferences: contention window submission deadline has passed")

	// ErrUnknownResource возвращается, когда запись ссылается на чужой
	// или несуществующий корт
	ErrUnknownResource = errors.New("replace_preferences: unknown resource in preference entry")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("replace_preferences: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("replace_preferences: internal error")
)
