package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVFormatter renders lines as CSV records. The header is written once
// even when Format is called per batch.
type CSVFormatter struct {
	writer        *csv.Writer
	headerWritten bool
}

// NewCSVFormatter creates a CSV formatter writing to w.
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: csv.NewWriter(w)}
}

func (f *CSVFormatter) Format(lines []Line) error {
	defer f.writer.Flush()

	if !f.headerWritten {
		header := []string{"entry", "elapsed_ms", "wall_clock", "epoch_ms"}
		if err := f.writer.Write(header); err != nil {
			return err
		}
		f.headerWritten = true
	}

	for _, line := range lines {
		record := []string{
			fmt.Sprintf("%d", line.Index),
			fmt.Sprintf("%d", line.ElapsedMillis),
			line.WallClock,
			fmt.Sprintf("%d", line.MillisSinceEpoch),
		}
		if err := f.writer.Write(record); err != nil {
			return err
		}
	}

	return f.writer.Error()
}
