// Package splice converts timecode in/out points into the seconds based
// ranges used by transcoding job descriptions.
package splice

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	cbstc "github.com/cbsinteractive/pkg/timecode"

	"github.com/zsiec/smpte/pkg/timecode"
)

// ErrInvalidRange is returned when an out point precedes its in point or
// no points are given.
var ErrInvalidRange = errors.New("invalid splice range")

// Point is an in/out pair of timecode strings.
type Point struct {
	In  string `json:"in"`
	Out string `json:"out"`
}

// Result is a sorted splice with its aggregate measurements.
type Result struct {
	Splice cbstc.Splice  `json:"ranges"`
	Total  time.Duration `json:"-"`
	Union  cbstc.Range   `json:"union"`
}

// TotalSeconds is the summed length of every range.
func (r Result) TotalSeconds() float64 {
	return r.Total.Seconds()
}

// Build parses each point at fps and returns the ranges in playback order.
// Drop-frame points are measured at nominal*1000/1001.
func Build(fps uint16, points []Point) (Result, error) {
	if len(points) == 0 {
		return Result{}, fmt.Errorf("no points: %w", ErrInvalidRange)
	}

	s := make(cbstc.Splice, 0, len(points))
	for i, p := range points {
		r, err := toRange(fps, p)
		if err != nil {
			return Result{}, fmt.Errorf("range#%d: %w", i, err)
		}
		s = append(s, r)
	}
	sort.Sort(s)

	return Result{
		Splice: s,
		Total:  s.Size(),
		Union:  s.Union(),
	}, nil
}

func toRange(fps uint16, p Point) (cbstc.Range, error) {
	in, err := timecode.Parse(fps, p.In)
	if err != nil {
		return cbstc.Range{}, fmt.Errorf("in: %w", err)
	}
	out, err := timecode.Parse(fps, p.Out)
	if err != nil {
		return cbstc.Range{}, fmt.Errorf("out: %w", err)
	}

	r := cbstc.Range{in.Duration().Seconds(), out.Duration().Seconds()}
	if r[1] < r[0] {
		return cbstc.Range{}, fmt.Errorf("%s before %s: %w", p.Out, p.In, ErrInvalidRange)
	}
	return r, nil
}

// Timecodes converts r back into in/out timecodes at the given rate,
// rounding each edge to the nearest count.
func Timecodes(fps uint16, dropFrame bool, r cbstc.Range) (in, out *timecode.Timecode, err error) {
	if in, err = fromSeconds(fps, dropFrame, r[0]); err != nil {
		return nil, nil, err
	}
	if out, err = fromSeconds(fps, dropFrame, r[1]); err != nil {
		return nil, nil, err
	}
	return in, out, nil
}

func fromSeconds(fps uint16, dropFrame bool, seconds float64) (*timecode.Timecode, error) {
	if seconds < 0 {
		return nil, fmt.Errorf("negative offset %f: %w", seconds, ErrInvalidRange)
	}
	rate, err := timecode.NewRateTable(fps)
	if err != nil {
		return nil, err
	}

	counts := seconds * float64(rate.CountsPerSecond())
	if dropFrame {
		counts = counts * 1000 / 1001
	}
	if counts > math.MaxUint32 {
		return nil, fmt.Errorf("offset %f overflows counter: %w", seconds, ErrInvalidRange)
	}
	return timecode.FromCounter(fps, dropFrame, uint32(math.Round(counts)))
}
