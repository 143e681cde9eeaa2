package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	// ErrSessionNotPersisted means a mood was recorded before the session
	// it belongs to had a storage id.
	ErrSessionNotPersisted = errors.New("session not persisted")
)
