package timecode

import "fmt"

// Format renders the timecode as HH:MM:SS:FF, using ';' before the frames
// for drop-frame. withField appends ".0" or ".1" from the field mark.
// Each field is masked to 6 bits, so overflowing values are truncated
// rather than widening the output.
func (tc *Timecode) Format(withField bool) string {
	c := tc.Components()

	sep := ':'
	if tc.dropFrame {
		sep = ';'
	}

	s := fmt.Sprintf("%02d:%02d:%02d%c%02d",
		c.Hours&0x3f, c.Minutes&0x3f, c.Seconds&0x3f, sep, c.Frames&0x3f)
	if !withField {
		return s
	}
	if tc.FieldMark() {
		return s + ".1"
	}
	return s + ".0"
}

// String returns the compact form without the field suffix.
func (tc *Timecode) String() string {
	return tc.Format(false)
}
