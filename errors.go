package frames

import "errors"

var (
	// ErrSourceNotFound is returned when the sprite sheet does not exist
	ErrSourceNotFound = errors.New("frames: source not found")
	// ErrDecode is returned when the sprite sheet cannot be decoded
	ErrDecode = errors.New("frames: cannot decode source")
	// ErrOutOfBounds is returned when a region lies outside the sprite sheet
	ErrOutOfBounds = errors.New("frames: region outside source image")
	// ErrWrite is returned when a frame cannot be written
	ErrWrite = errors.New("frames: cannot write frame")
	// ErrInvalidConfig is returned for a configuration that fails validation
	ErrInvalidConfig = errors.New("frames: invalid configuration")
)
