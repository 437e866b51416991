package timecode

import "fmt"

// FieldRateThreshold is the highest nominal rate counted in whole frames.
// Above it every displayed frame occupies two counter steps (fields).
const FieldRateThreshold = 30

// RateTable holds the integer constants derived from a nominal frame rate.
// A RateTable is immutable once built.
type RateTable struct {
	FPS                 uint16 `json:"fps"`
	ScaledFPS           uint32 `json:"scaled_fps"`
	FramesPerHour       uint32 `json:"frames_per_hour"`
	FramesPerMinute     uint32 `json:"frames_per_minute"`
	DropFramesPerMinute uint32 `json:"drop_frames_per_minute"`
	DropFramesPer10Min  uint32 `json:"drop_frames_per_10min"`
	DropFramesPerHour   uint32 `json:"drop_frames_per_hour"`
}

// NewRateTable derives the constants for fps. Zero is rejected.
func NewRateTable(fps uint16) (RateTable, error) {
	if fps == 0 {
		return RateTable{}, fmt.Errorf("%w: 0", ErrInvalidFrameRate)
	}

	scaled := uint32(fps)
	if fps > FieldRateThreshold {
		scaled = uint32(fps) / 2
	}

	t := RateTable{
		FPS:             fps,
		ScaledFPS:       scaled,
		FramesPerHour:   scaled * 3600,
		FramesPerMinute: scaled * 60,
	}
	// A drop minute is two frames short. Nine of them plus one full minute
	// make up each ten minute block.
	t.DropFramesPerMinute = t.FramesPerMinute - 2
	t.DropFramesPer10Min = t.DropFramesPerMinute*9 + t.FramesPerMinute
	t.DropFramesPerHour = t.DropFramesPer10Min * 6

	return t, nil
}

// MustRateTable is like NewRateTable but panics on a zero rate.
func MustRateTable(fps uint16) RateTable {
	t, err := NewRateTable(fps)
	if err != nil {
		panic(err)
	}
	return t
}

// FieldBased reports whether the counter steps in fields rather than frames.
func (t RateTable) FieldBased() bool {
	return t.FPS > FieldRateThreshold
}

// CountsPerSecond returns counter steps per nominal second.
func (t RateTable) CountsPerSecond() uint32 {
	if t.FieldBased() {
		return t.ScaledFPS * 2
	}
	return t.ScaledFPS
}

// DefaultDropFrame reports whether fps is conventionally run as drop-frame.
// Only the NTSC-derived nominal rates 30 and 60 are.
func DefaultDropFrame(fps uint16) bool {
	return fps == 30 || fps == 60
}
