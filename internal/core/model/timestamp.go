package model

import "time"

// Timestamp is one decoded entry of the per-build timestamp log: how far
// into the build the log line was emitted, and the wall-clock time it
// corresponds to. Values are immutable and compared by value.
type Timestamp struct {
	// ElapsedMillis is milliseconds since the build started. It is
	// non-decreasing across a well-formed log.
	ElapsedMillis int64 `json:"elapsedMillis"`

	// MillisSinceEpoch is the absolute wall-clock time of the entry in
	// Unix milliseconds. Clock-shift overrides can move it backward, so
	// unlike ElapsedMillis it is not necessarily monotonic.
	MillisSinceEpoch int64 `json:"millisSinceEpoch"`
}

// WallClock returns the entry's absolute time.
func (t Timestamp) WallClock() time.Time {
	return time.UnixMilli(t.MillisSinceEpoch)
}

// Elapsed returns the entry's offset from the build start as a Duration.
func (t Timestamp) Elapsed() time.Duration {
	return time.Duration(t.ElapsedMillis) * time.Millisecond
}
