package service

import "errors"

var (
	// ErrValidation: запрос или строка файла не проходит проверку (400).
	ErrValidation = errors.New("invalid input")

	// ErrNotFound is returned when nothing scores above the threshold (404).
	ErrNotFound = errors.New("no matching item found")

	// ErrInternal wraps seed/sample file failures and other server-side errors (500).
	ErrInternal = errors.New("internal error")
)
