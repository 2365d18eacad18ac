package tslog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/buildstamp/buildstamp/internal/core/model"
	"github.com/buildstamp/buildstamp/internal/data/varint"
)

// ErrNegativeCount is returned when Read or Skip is called with a
// negative count.
var ErrNegativeCount = errors.New("tslog: negative count")

// Cursor is the complete resumable state of a Reader. It holds byte
// offsets into both files, the running accumulators, and the buffered
// shift lookahead; no file handle is part of it, so it can be persisted
// (it marshals to JSON) and used to reconstruct an equivalent Reader
// later. A zero Cursor denotes the start of the log.
type Cursor struct {
	// EntryIndex counts the entries fully produced so far.
	EntryIndex int64 `json:"entryIndex"`

	// ElapsedMillis is the running sum of deltas read so far.
	ElapsedMillis int64 `json:"elapsedMillis"`

	// MillisSinceEpoch is the running wall-clock accumulator. It tracks
	// ElapsedMillis except where a shift record replaced it.
	MillisSinceEpoch int64 `json:"millisSinceEpoch"`

	// TimestampsOffset is the byte offset of the next unread varint in
	// the timestamps file.
	TimestampsOffset int64 `json:"timestampsOffset"`

	// TimeShiftsOffset is the byte offset of the next unread pair in the
	// timeShifts file.
	TimeShiftsOffset int64 `json:"timeShiftsOffset"`

	// PendingShift is the one-record lookahead into the overlay: decoded
	// but not yet applied.
	PendingShift *Shift `json:"pendingShift,omitempty"`
}

// clone returns a copy that shares no pointers with c.
func (c Cursor) clone() Cursor {
	out := c
	if c.PendingShift != nil {
		shift := *c.PendingShift
		out.PendingShift = &shift
	}
	return out
}

// Reader is a stateful forward cursor over one build's timestamp log,
// merging the optional clock-shift overlay at read time. Files are
// opened per call and closed before the call returns, so a Reader holds
// no resources between calls; its Cursor is the only durable state.
// A Reader is not safe for concurrent use.
type Reader struct {
	dir string
	cur Cursor
}

// NewReader creates a Reader positioned at the start of the log in the
// build directory.
func NewReader(dir string) *Reader {
	return &Reader{dir: dir}
}

// NewReaderAt reconstructs a Reader from a previously saved Cursor. The
// new Reader behaves identically to the one the cursor was taken from.
func NewReaderAt(dir string, cursor Cursor) *Reader {
	return &Reader{dir: dir, cur: cursor.clone()}
}

// Cursor returns a snapshot of the reader's state, taken at the last
// fully decoded entry boundary.
func (r *Reader) Cursor() Cursor {
	return r.cur.clone()
}

// Read produces the next entry, or nil once the log is exhausted.
func (r *Reader) Read() (*model.Timestamp, error) {
	entries, err := r.ReadN(1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// ReadN produces up to n entries in log order. Fewer than n (possibly
// zero) are returned when the log ends first. A log file that does not
// exist yet reads as empty.
func (r *Reader) ReadN(n int) ([]model.Timestamp, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCount, n)
	}
	var entries []model.Timestamp
	err := r.advance(n, func(ts model.Timestamp) {
		entries = append(entries, ts)
	})
	return entries, err
}

// Skip advances past n entries without materializing them. Accumulators
// and shift consumption advance exactly as ReadN would, so a subsequent
// read continues from the correct baseline. Skipping past the end of
// the log is not an error; the cursor stops at the last entry.
func (r *Reader) Skip(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCount, n)
	}
	return r.advance(n, nil)
}

// advance runs the decode loop for up to n entries, calling emit (when
// non-nil) with each one. The cursor is committed per entry, after the
// delta and any shift lookahead decoded cleanly, so a failure mid-entry
// leaves the reader at the previous entry boundary and restoring from a
// saved cursor remains safe.
func (r *Reader) advance(n int, emit func(model.Timestamp)) error {
	if n == 0 {
		return nil
	}

	main, err := openAt(TimestampsFile(r.dir), r.cur.TimestampsOffset)
	if err != nil {
		return err
	}
	if main == nil {
		// Not written yet: zero entries so far.
		return nil
	}
	defer main.close()

	var shifts *logFile
	shiftsDone := false
	defer func() {
		if shifts != nil {
			shifts.close()
		}
	}()

	for i := 0; i < n; i++ {
		delta, width, err := main.readValue()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", TimestampsFile(r.dir), err)
		}

		// Stage the new state; commit only once the entry is complete.
		next := r.cur
		next.TimestampsOffset += int64(width)
		next.ElapsedMillis += delta

		if next.PendingShift == nil && !shiftsDone {
			if shifts == nil {
				shifts, err = openAt(TimeShiftsFile(r.dir), r.cur.TimeShiftsOffset)
				if err != nil {
					return err
				}
				if shifts == nil {
					shiftsDone = true
				}
			}
			if !shiftsDone {
				shift, width, err := readShift(shifts.br)
				switch {
				case err == io.EOF:
					shiftsDone = true
				case err != nil:
					return err
				default:
					next.PendingShift = &shift
					next.TimeShiftsOffset += int64(width)
				}
			}
		}

		if next.PendingShift != nil && next.PendingShift.EntryIndex == next.EntryIndex {
			// An absolute override: replace the accumulator, not add.
			next.MillisSinceEpoch = next.PendingShift.MillisSinceEpoch
			next.PendingShift = nil
		} else {
			next.MillisSinceEpoch += delta
		}

		next.EntryIndex++
		r.cur = next

		if emit != nil {
			emit(model.Timestamp{
				ElapsedMillis:    next.ElapsedMillis,
				MillisSinceEpoch: next.MillisSinceEpoch,
			})
		}
	}
	return nil
}

// logFile is a transient, buffered view of one log file positioned at a
// saved byte offset.
type logFile struct {
	f  *os.File
	br *bufio.Reader
}

// openAt opens path seeked to offset. A missing file yields (nil, nil):
// the valid empty case, not an error.
func openAt(path string, offset int64) (*logFile, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	return &logFile{f: f, br: bufio.NewReader(f)}, nil
}

func (l *logFile) readValue() (int64, int, error) {
	return varint.Read(l.br)
}

func (l *logFile) close() {
	l.f.Close()
}
