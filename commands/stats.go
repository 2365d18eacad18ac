package commands

import (
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/buildstamp/buildstamp/internal/data/tslog"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the timestamp log of one build",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	reader := tslog.NewReader(buildDir)

	var (
		count      int64
		prev       int64
		minDelta   int64
		maxDelta   int64
		lastEpoch  int64
		firstEpoch int64
	)

	for {
		entries, err := reader.ReadN(1000)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			break
		}
		for _, e := range entries {
			delta := e.ElapsedMillis - prev
			prev = e.ElapsedMillis

			if count == 0 {
				minDelta, maxDelta = delta, delta
				firstEpoch = e.MillisSinceEpoch
			} else {
				if delta < minDelta {
					minDelta = delta
				}
				if delta > maxDelta {
					maxDelta = delta
				}
			}
			lastEpoch = e.MillisSinceEpoch
			count++
		}
	}

	shifts, err := tslog.NewShiftReader(buildDir).ReadAll()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Property", "Value")
	table.Append([]string{"Entries", fmt.Sprintf("%d", count)})
	table.Append([]string{"Clock shifts", fmt.Sprintf("%d", len(shifts))})

	if count > 0 {
		elapsed := time.Duration(prev) * time.Millisecond
		table.Append([]string{"Total elapsed", elapsed.String()})
		table.Append([]string{"Min delta (ms)", fmt.Sprintf("%d", minDelta)})
		table.Append([]string{"Max delta (ms)", fmt.Sprintf("%d", maxDelta)})
		table.Append([]string{"Mean delta (ms)", fmt.Sprintf("%.1f", float64(prev)/float64(count))})
		table.Append([]string{"First entry (epoch ms)", fmt.Sprintf("%d", firstEpoch)})
		table.Append([]string{"Last entry (epoch ms)", fmt.Sprintf("%d", lastEpoch)})
	}

	return table.Render()
}
