package timecode

import "time"

// Duration returns the elapsed wall time represented by the counter.
// Drop-frame timecodes run at nominal*1000/1001, so the result is
// stretched by 1001/1000.
func (tc *Timecode) Duration() time.Duration {
	cps := uint64(tc.rate.CountsPerSecond())
	n := uint64(tc.counter)

	d := time.Duration(n/cps)*time.Second +
		time.Duration((n%cps)*uint64(time.Second)/cps)
	if tc.dropFrame {
		d += d / 1000
	}
	return d
}

// FrameDuration returns the wall time of one counter step.
func (r RateTable) FrameDuration(dropFrame bool) time.Duration {
	d := time.Second / time.Duration(r.CountsPerSecond())
	if dropFrame {
		d = time.Duration(int64(time.Second) * 1001 / (int64(r.CountsPerSecond()) * 1000))
	}
	return d
}
