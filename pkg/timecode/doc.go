// Package timecode implements SMPTE 12-1 style broadcast timecode.
//
// A Timecode is an unsigned 32-bit count of frames, or of fields when the
// nominal rate is above 30, measured from 00:00:00:00. Hours, minutes,
// seconds and frames are never stored; they are decoded from the counter on
// demand, including drop-frame compensation for the NTSC-derived rates
// (29.97 and 59.94 use nominal 30 and 60).
//
// Construction is deliberately lenient: out-of-range components are encoded
// as-is and formatting masks each decoded field to 6 bits. Callers that want
// strict input checking use Components.Validate before constructing.
//
// The counter never wraps at 24 hours.
package timecode
