package timecode

import (
	"errors"
	"fmt"
)

// ErrSelfTest is returned by SelfTest when a known vector fails.
var ErrSelfTest = errors.New("timecode self test failed")

type selfTestVector struct {
	fps        uint16
	dropFrame  bool
	start      Components
	fieldPair  uint8
	increments int
	want       string // formatted with the field suffix
	wantBCD    uint32
}

var selfTestVectors = []selfTestVector{
	{fps: 30, dropFrame: true, increments: 1, want: "00:00:00;01.0", wantBCD: 0x00000001},
	{fps: 25, increments: 1, want: "00:00:00:01.0", wantBCD: 0x00000001},
	{fps: 30, dropFrame: true, start: Components{10, 11, 12, 13}, increments: 1, want: "10:11:12;14.0", wantBCD: 0x10111214},
	{fps: 60, dropFrame: true, start: Components{10, 11, 12, 13}, increments: 1, want: "10:11:12;13.1", wantBCD: 0x10111213},
	{fps: 60, dropFrame: true, start: Components{10, 11, 12, 13}, increments: 2, want: "10:11:12;14.0", wantBCD: 0x10111214},
	{fps: 60, dropFrame: true, start: Components{10, 11, 59, 29}, increments: 3, want: "10:12:00;02.1", wantBCD: 0x10120002},
	{fps: 50, start: Components{10, 11, 12, 13}, fieldPair: 1, want: "10:11:12:13.1", wantBCD: 0x10111213},
	{fps: 30, dropFrame: true, start: Components{0, 9, 59, 29}, increments: 1, want: "00:10:00;00.0", wantBCD: 0x00100000},
}

// SelfTest runs the engine against a fixed set of known timecode vectors
// covering drop-frame minute boundaries, field rates and BCD packing.
func SelfTest() error {
	for i, v := range selfTestVectors {
		tc, err := New(v.fps, v.dropFrame, v.start, v.fieldPair)
		if err != nil {
			return fmt.Errorf("vector %d: %w", i, err)
		}
		for n := 0; n < v.increments; n++ {
			tc.Increment()
		}
		if got := tc.Format(true); got != v.want {
			return fmt.Errorf("vector %d: got %s, want %s: %w", i, got, v.want, ErrSelfTest)
		}
		if got := tc.BCD(); got != v.wantBCD {
			return fmt.Errorf("vector %d: bcd %#08x, want %#08x: %w", i, got, v.wantBCD, ErrSelfTest)
		}

		parsed, err := Parse(v.fps, v.want)
		if err != nil {
			return fmt.Errorf("vector %d: %w", i, err)
		}
		if parsed.Counter() != tc.Counter() {
			return fmt.Errorf("vector %d: parsed counter %d, want %d: %w", i, parsed.Counter(), tc.Counter(), ErrSelfTest)
		}
	}
	return nil
}
