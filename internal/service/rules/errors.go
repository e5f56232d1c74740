package rules

import "errors"

var (
	// ErrInvalidInput возвращается, когда запрос не разбирается в слот
	// (некорректное время или длительность); это не нарушение правила
	ErrInvalidInput = errors.New("rules.service: invalid booking input")
)
