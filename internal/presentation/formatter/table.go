package formatter

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableFormatter renders lines as an aligned table for terminals.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a table formatter writing to w.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

func (f *TableFormatter) Format(lines []Line) error {
	table := tablewriter.NewWriter(f.writer)
	table.Header("Entry", "Elapsed", "Elapsed (ms)", "Wall Clock", "Epoch (ms)")

	for _, line := range lines {
		table.Append([]string{
			fmt.Sprintf("%d", line.Index),
			line.Elapsed,
			fmt.Sprintf("%d", line.ElapsedMillis),
			line.WallClock,
			fmt.Sprintf("%d", line.MillisSinceEpoch),
		})
	}

	return table.Render()
}
