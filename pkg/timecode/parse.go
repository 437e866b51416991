package timecode

import (
	"fmt"
	"regexp"
	"strconv"
)

var timecodePattern = regexp.MustCompile(
	`^([0-9][0-9])[:;.,]([0-5][0-9])[:;.]([0-5][0-9])([:;.,])([0-5][0-9])(\.[01])?$`)

// Parse reads text in HH:MM:SS:FF form. A ';' or ',' before the frames
// selects drop-frame; any other accepted separator selects non-drop. An
// optional ".0" or ".1" suffix selects the field of the frame.
func Parse(fps uint16, text string) (*Timecode, error) {
	m := timecodePattern.FindStringSubmatch(text)
	if len(m) < 6 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidArgument, text)
	}

	drop := m[4] == ";" || m[4] == ","

	var fieldPair uint8
	if m[6] == ".1" {
		fieldPair = 1
	}

	return New(fps, drop, Components{
		Hours:   atou(m[1]),
		Minutes: atou(m[2]),
		Seconds: atou(m[3]),
		Frames:  atou(m[5]),
	}, fieldPair)
}

// MustParse is like Parse but panics on error.
func MustParse(fps uint16, text string) *Timecode {
	tc, err := Parse(fps, text)
	if err != nil {
		panic(err)
	}
	return tc
}

// atou converts a two digit group already matched by the pattern.
func atou(s string) uint32 {
	n, _ := strconv.ParseUint(s, 10, 32)
	return uint32(n)
}
