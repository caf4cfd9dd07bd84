package repository

import "errors"

// Common repository errors
var (
	// ErrGroupNotFound is returned when no group document matches the id
	ErrGroupNotFound = errors.New("group not found")

	// ErrTaskNotFound is returned when the group has no task with the id
	ErrTaskNotFound = errors.New("task not found")

	// ErrConflict is returned when a compare-and-set keeps losing to concurrent writers
	ErrConflict = errors.New("concurrent modification")

	// ErrDuplicateEmail is returned when an account already uses the email
	ErrDuplicateEmail = errors.New("email already registered")
)
