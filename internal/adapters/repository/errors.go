package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound     = errors.New("employee not found")
	ErrInvalidEvent = errors.New("invalid activity event")
)
