package tslog

import (
	"os"
	"path/filepath"

	"github.com/buildstamp/buildstamp/internal/data/varint"
)

// Writer appends delta-encoded elapsed-time values to the timestamp log
// of one build. The file only ever grows; no call rewrites earlier
// bytes. A Writer is not safe for concurrent use.
type Writer struct {
	path string
}

// NewWriter creates a Writer for the build directory. Nothing is created
// on disk until the first Append.
func NewWriter(dir string) *Writer {
	return &Writer{path: TimestampsFile(dir)}
}

// Append encodes deltaMillis and appends it to the log, creating the
// file and its parent directory on first use. The encoded value is
// written with a single write call so a reader never observes a torn
// varint from a completed Append.
func (w *Writer) Append(deltaMillis int64) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	_, err = f.Write(varint.Encode(deltaMillis))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
