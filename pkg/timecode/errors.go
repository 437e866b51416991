package timecode

import "errors"

var (
	// ErrInvalidArgument is returned by Parse when the text does not match
	// the timecode grammar.
	ErrInvalidArgument = errors.New("invalid timecode argument")

	// ErrInvalidFrameRate is returned when a zero nominal frame rate is supplied.
	ErrInvalidFrameRate = errors.New("invalid frame rate")

	// ErrComponentRange is returned by Components.Validate for fields a decode
	// could never produce.
	ErrComponentRange = errors.New("timecode component out of range")
)
