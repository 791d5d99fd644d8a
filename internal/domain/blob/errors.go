package blob

import "errors"

var (
	// ErrNotFound indicates no payload is stored under the key.
	ErrNotFound = errors.New("audio blob not found")
	// ErrInvalidKey indicates a malformed or ambiguous blob key.
	ErrInvalidKey = errors.New("invalid blob key")
)
