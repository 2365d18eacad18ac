// Package tslog reads and writes the per-build timestamp log: a compact
// append-only file holding one delta-encoded elapsed-time value per
// emitted log line, plus an optional legacy clock-shift overlay that
// older recorders produced alongside it.
package tslog

import "path/filepath"

const (
	timestampsName = "timestamps"
	timeShiftsName = "timeShifts"
)

// TimestampsFile returns the path of the main timestamp log inside the
// per-build directory.
func TimestampsFile(dir string) string {
	return filepath.Join(dir, timestampsName)
}

// TimeShiftsFile returns the path of the optional clock-shift overlay
// inside the per-build directory. Current recorders never create this
// file; it is only read for logs written by older tool versions.
func TimeShiftsFile(dir string) string {
	return filepath.Join(dir, timeShiftsName)
}
