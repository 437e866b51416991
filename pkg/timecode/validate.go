package timecode

import "fmt"

// Validate reports whether c is something Components could return for a
// timecode at rate r within a single day. Construction never calls it; it
// exists for callers that want to reject input instead of truncating it.
func (c Components) Validate(r RateTable, dropFrame bool) error {
	switch {
	case c.Hours > 23:
		return fmt.Errorf("%w: hours %d", ErrComponentRange, c.Hours)
	case c.Minutes > 59:
		return fmt.Errorf("%w: minutes %d", ErrComponentRange, c.Minutes)
	case c.Seconds > 59:
		return fmt.Errorf("%w: seconds %d", ErrComponentRange, c.Seconds)
	case c.Frames >= r.ScaledFPS:
		return fmt.Errorf("%w: frames %d at %d fps", ErrComponentRange, c.Frames, r.FPS)
	}

	if dropFrame && c.Minutes%10 != 0 && c.Seconds == 0 && c.Frames < 2 {
		return fmt.Errorf("%w: frame %02d:%02d:%02d;%02d is dropped",
			ErrComponentRange, c.Hours, c.Minutes, c.Seconds, c.Frames)
	}
	return nil
}
