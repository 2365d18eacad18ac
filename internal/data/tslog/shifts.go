package tslog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/buildstamp/buildstamp/internal/data/varint"
)

// ErrMalformedShifts indicates a timeShifts file with an odd number of
// values or a trailing partial varint.
var ErrMalformedShifts = errors.New("tslog: malformed timeShifts file")

// Shift is one clock-correction record from the legacy overlay: at entry
// EntryIndex the wall-clock accumulator is replaced by MillisSinceEpoch
// instead of tracking elapsed time. Records appear in ascending
// EntryIndex order on disk.
type Shift struct {
	EntryIndex       int64 `json:"entryIndex"`
	MillisSinceEpoch int64 `json:"millisSinceEpoch"`
}

// ShiftReader decodes the optional timeShifts overlay of one build.
type ShiftReader struct {
	path string
}

// NewShiftReader creates a ShiftReader for the build directory.
func NewShiftReader(dir string) *ShiftReader {
	return &ShiftReader{path: TimeShiftsFile(dir)}
}

// ReadAll decodes every shift record in the overlay. An absent file is
// the normal case for logs written by current tool versions and yields
// an empty result, not an error.
func (s *ShiftReader) ReadAll() ([]Shift, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var shifts []Shift
	br := bufio.NewReader(f)
	for {
		shift, _, err := readShift(br)
		if err == io.EOF {
			return shifts, nil
		}
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
}

// readShift decodes one (entryIndex, millisSinceEpoch) pair and reports
// how many bytes it occupied. io.EOF means a clean end of the overlay;
// an index without a matching epoch value is malformed.
func readShift(r io.ByteReader) (Shift, int, error) {
	index, n, err := varint.Read(r)
	if err == io.EOF {
		return Shift{}, 0, io.EOF
	}
	if err != nil {
		return Shift{}, n, fmt.Errorf("%w: %v", ErrMalformedShifts, err)
	}

	epoch, m, err := varint.Read(r)
	if err != nil {
		return Shift{}, n + m, fmt.Errorf("%w: entry index %d has no epoch value", ErrMalformedShifts, index)
	}

	return Shift{EntryIndex: index, MillisSinceEpoch: epoch}, n + m, nil
}
