package mix

import "errors"

var (
	// ErrMixNotFound indicates no cumulative mix is stored for the clip.
	ErrMixNotFound = errors.New("cumulative mix not found")
	// ErrInvalidAudio indicates a payload that doesn't decode as WAV audio.
	ErrInvalidAudio = errors.New("invalid audio payload")
)
