package repository

import "errors"

// Common repository errors
var (
	// ErrTodoNotFound is returned when no todo row matches the given id
	ErrTodoNotFound = errors.New("todo not found")

	// ErrConflict is returned when an optimistic update collides with a
	// concurrent write to the same row
	ErrConflict = errors.New("todo was modified concurrently")
)
