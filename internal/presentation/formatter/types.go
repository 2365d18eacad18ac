// Package formatter renders decoded timestamp log entries for the CLI.
package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/buildstamp/buildstamp/internal/core/model"
	"github.com/buildstamp/buildstamp/internal/util"
)

// wallClockLayout is how absolute entry times are rendered.
const wallClockLayout = "2006-01-02 15:04:05.000"

// Line is one renderable row of the decoded log.
type Line struct {
	Index            int64  `json:"index"`
	ElapsedMillis    int64  `json:"elapsedMillis"`
	MillisSinceEpoch int64  `json:"millisSinceEpoch"`
	Elapsed          string `json:"elapsed"`
	WallClock        string `json:"wallClock"`
}

// Formatter renders a batch of lines. Implementations may be called
// repeatedly for successive batches (e.g. in follow mode).
type Formatter interface {
	Format(lines []Line) error
}

// New returns the formatter for the named output format.
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (expected table, json or csv)", format)
	}
}

// NewLine builds a renderable row from a decoded entry and its position
// in the log, rendering the wall clock in the configured timezone.
func NewLine(index int64, ts model.Timestamp) Line {
	return Line{
		Index:            index,
		ElapsedMillis:    ts.ElapsedMillis,
		MillisSinceEpoch: ts.MillisSinceEpoch,
		Elapsed:          (time.Duration(ts.ElapsedMillis) * time.Millisecond).String(),
		WallClock:        util.GetTimeProvider().FormatMillis(ts.MillisSinceEpoch, wallClockLayout),
	}
}

// NewLines converts a batch of entries starting at the given index.
func NewLines(startIndex int64, entries []model.Timestamp) []Line {
	lines := make([]Line, len(entries))
	for i, ts := range entries {
		lines[i] = NewLine(startIndex+int64(i), ts)
	}
	return lines
}
