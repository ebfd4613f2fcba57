package storage

import "errors"

// Storage errors.
var (
	// ErrNotFound indicates no blob exists at the requested key.
	ErrNotFound = errors.New("blob not found")
	// ErrInvalidKey indicates a key that is empty or escapes the container.
	ErrInvalidKey = errors.New("invalid blob key")
)
