package store

import "errors"

var (
	// ErrTitleConflict reports that a new work's normalized title collides
	// with an already subscribed work. Nothing is written when it fires.
	ErrTitleConflict = errors.New("title conflict")

	// ErrNotFound reports that a work or volume does not exist.
	ErrNotFound = errors.New("not found")

	// ErrLocked reports that another bindery process holds the database.
	ErrLocked = errors.New("database locked by another process")
)
