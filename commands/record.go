package commands

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildstamp/buildstamp/internal/data/tslog"
	"github.com/buildstamp/buildstamp/internal/util"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Timestamp build output lines read from stdin",
	Long: `record reads build output on stdin, appends one timestamp log entry per
line, and echoes the lines through unchanged so it can sit in a pipeline:

  some-build 2>&1 | buildstamp record --dir /var/builds/42 | tee build.log`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	recorder := tslog.NewRecorder(buildDir)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	lines := 0
	for scanner.Scan() {
		if err := recorder.Record(); err != nil {
			return fmt.Errorf("failed to record timestamp: %w", err)
		}
		lines++
		if _, err := fmt.Fprintln(out, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	util.LogDebugf("Recorded %d timestamps in %s", lines, buildDir)
	return nil
}
