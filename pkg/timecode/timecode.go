package timecode

// Flags mirrors the timecode flag bits exposed by capture hardware APIs.
type Flags uint8

const (
	// FlagDropFrame is set for drop-frame timecodes.
	FlagDropFrame Flags = 1 << 0
	// FlagFieldMark is set when the counter addresses the second field of a frame.
	FlagFieldMark Flags = 1 << 1
)

// Has reports whether every bit in f2 is set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Components are the decoded fields of a timecode.
type Components struct {
	Hours   uint32 `json:"hours"`
	Minutes uint32 `json:"minutes"`
	Seconds uint32 `json:"seconds"`
	Frames  uint32 `json:"frames"`
}

// Timecode is a frame (or field) counter at a fixed nominal rate.
//
// A Timecode is not safe for concurrent mutation.
type Timecode struct {
	rate      RateTable
	dropFrame bool
	counter   uint32
	userBits  uint32
}

// New builds a Timecode from explicit components. fieldPair selects the
// first (0) or second (1) field of the frame and is ignored at rates of 30
// or below. Components are not range checked, and each is encoded at its
// full 32-bit width rather than truncated to 8 bits, so hours 300 stays 300.
func New(fps uint16, dropFrame bool, c Components, fieldPair uint8) (*Timecode, error) {
	rate, err := NewRateTable(fps)
	if err != nil {
		return nil, err
	}

	tc := &Timecode{
		rate:      rate,
		dropFrame: dropFrame,
	}
	tc.counter = tc.encode(c, fieldPair)
	return tc, nil
}

// NewDefault returns a timecode at 00:00:00:00 using the conventional
// drop-frame setting for fps.
func NewDefault(fps uint16) (*Timecode, error) {
	return New(fps, DefaultDropFrame(fps), Components{}, 0)
}

// FromCounter restores a Timecode from a previously read Counter value.
func FromCounter(fps uint16, dropFrame bool, counter uint32) (*Timecode, error) {
	rate, err := NewRateTable(fps)
	if err != nil {
		return nil, err
	}
	return &Timecode{rate: rate, dropFrame: dropFrame, counter: counter}, nil
}

// encode maps components onto a counter value. Arithmetic is modulo 2^32.
func (tc *Timecode) encode(c Components, fieldPair uint8) uint32 {
	r := tc.rate

	var base uint32
	if tc.dropFrame {
		base = c.Hours * r.DropFramesPerHour
		base += (c.Minutes / 10) * r.DropFramesPer10Min
		base += (c.Minutes % 10) * r.DropFramesPerMinute
	} else {
		base = c.Hours*r.FramesPerHour + c.Minutes*r.FramesPerMinute
	}
	base += c.Seconds*r.ScaledFPS + c.Frames

	if r.FieldBased() {
		return base*2 + uint32(fieldPair)
	}
	return base
}

// Components decodes the counter into hours, minutes, seconds and frames.
// Hours are not bounded to 24.
func (tc *Timecode) Components() Components {
	r := tc.rate

	base := tc.counter
	if r.FieldBased() {
		base /= 2
	}

	if !tc.dropFrame {
		totalSeconds := base / r.ScaledFPS
		totalMinutes := totalSeconds / 60
		return Components{
			Hours:   totalMinutes / 60,
			Minutes: totalMinutes % 60,
			Seconds: totalSeconds % 60,
			Frames:  base % r.ScaledFPS,
		}
	}

	var c Components
	c.Hours = base / r.DropFramesPerHour
	remaining := base % r.DropFramesPerHour
	major := remaining / r.DropFramesPer10Min
	remaining %= r.DropFramesPer10Min

	if remaining < r.FramesPerMinute {
		// First minute of the ten minute block keeps every frame number.
		c.Minutes = major * 10
		c.Seconds = remaining / r.ScaledFPS
		c.Frames = remaining % r.ScaledFPS
		return c
	}

	remaining -= r.FramesPerMinute
	c.Minutes = major*10 + remaining/r.DropFramesPerMinute + 1
	remaining %= r.DropFramesPerMinute

	// Frame numbers 0 and 1 do not exist in this minute, so only its first
	// second is short.
	if remaining < r.ScaledFPS-2 {
		c.Seconds = 0
		c.Frames = remaining + 2
		return c
	}
	remaining += 2
	c.Seconds = remaining / r.ScaledFPS
	c.Frames = remaining % r.ScaledFPS
	return c
}

// Increment advances the counter by one frame, or one field above 30 fps.
// The counter does not wrap at 24 hours.
func (tc *Timecode) Increment() {
	tc.counter++
}

// Counter returns the raw frame or field count.
func (tc *Timecode) Counter() uint32 {
	return tc.counter
}

// FPS returns the nominal frame rate.
func (tc *Timecode) FPS() uint16 {
	return tc.rate.FPS
}

// Rate returns the derived rate constants.
func (tc *Timecode) Rate() RateTable {
	return tc.rate
}

// IsDropFrame reports whether the timecode uses drop-frame numbering.
func (tc *Timecode) IsDropFrame() bool {
	return tc.dropFrame
}

// FieldMark reports whether the counter addresses the second field of a
// frame. Always false at 30 fps and below.
func (tc *Timecode) FieldMark() bool {
	return tc.rate.FieldBased() && tc.counter%2 == 1
}

// Flags returns the current flag set.
func (tc *Timecode) Flags() Flags {
	var f Flags
	if tc.dropFrame {
		f |= FlagDropFrame
	}
	if tc.FieldMark() {
		f |= FlagFieldMark
	}
	return f
}

// UserBits returns the opaque user bits payload.
func (tc *Timecode) UserBits() uint32 {
	return tc.userBits
}

// SetUserBits replaces the user bits payload.
func (tc *Timecode) SetUserBits(bits uint32) {
	tc.userBits = bits
}

// BCD packs the decoded components as binary-coded decimal, hours tens in
// the most significant nibble. Each component must be below 100 for the
// result to be meaningful.
func (tc *Timecode) BCD() uint32 {
	c := tc.Components()
	return (c.Hours/10)<<28 | (c.Hours%10)<<24 |
		(c.Minutes/10)<<20 | (c.Minutes%10)<<16 |
		(c.Seconds/10)<<12 | (c.Seconds%10)<<8 |
		(c.Frames/10)<<4 | c.Frames%10
}
