package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/buildstamp/buildstamp/internal/core/model"
	"github.com/buildstamp/buildstamp/internal/data/tail"
	"github.com/buildstamp/buildstamp/internal/data/tslog"
	"github.com/buildstamp/buildstamp/internal/presentation/formatter"
	"github.com/buildstamp/buildstamp/internal/util"
)

var (
	dumpSkip   int
	dumpLimit  int
	dumpBatch  int
	cursorFile string
	follow     bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the decoded timestamp log",
	Long: `dump decodes the timestamp log of one build and prints an entry per log
line: elapsed build time and the wall-clock time it corresponds to,
including clock corrections recorded by older tool versions.

With --cursor-file the reader cursor is restored from and persisted to the
given path, so successive invocations continue where the previous one left
off. With --follow, dump keeps printing entries as the log grows.`,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().IntVar(&dumpSkip, "skip", 0,
		"Skip the first N entries")
	dumpCmd.Flags().IntVar(&dumpLimit, "limit", 0,
		"Stop after printing N entries (0 = unlimited)")
	dumpCmd.Flags().IntVar(&dumpBatch, "batch", 100,
		"Entries decoded per read")
	dumpCmd.Flags().StringVar(&cursorFile, "cursor-file", "",
		"Restore the reader cursor from this path and persist it back on exit")
	dumpCmd.Flags().BoolVarP(&follow, "follow", "f", false,
		"Keep printing entries as the log grows")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	f, err := formatter.New(resolveOutputFormat(cmd), out)
	if err != nil {
		return err
	}

	reader := tslog.NewReader(buildDir)
	if cursorFile != "" {
		cursor, found, err := loadCursor(cursorFile)
		if err != nil {
			return err
		}
		if found {
			reader = tslog.NewReaderAt(buildDir, cursor)
			util.LogDebugf("Resumed cursor from %s at entry %d", cursorFile, cursor.EntryIndex)
		}
	}

	if dumpSkip > 0 {
		if err := reader.Skip(dumpSkip); err != nil {
			return err
		}
	}

	printed := 0
	for {
		n := dumpBatch
		if dumpLimit > 0 {
			remaining := dumpLimit - printed
			if remaining <= 0 {
				break
			}
			if n > remaining {
				n = remaining
			}
		}

		start := reader.Cursor().EntryIndex
		entries, err := reader.ReadN(n)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			break
		}
		if err := f.Format(formatter.NewLines(start, entries)); err != nil {
			return err
		}
		printed += len(entries)
	}

	cursor := reader.Cursor()
	if follow && dumpLimit == 0 {
		cursor, err = followLog(cmd, f, cursor)
		if err != nil {
			return err
		}
	}

	if cursorFile != "" {
		if err := saveCursor(cursorFile, cursor); err != nil {
			return err
		}
		util.LogDebugf("Saved cursor to %s at entry %d", cursorFile, cursor.EntryIndex)
	}
	return nil
}

// followLog blocks printing new entries until interrupted, then returns
// the final cursor.
func followLog(cmd *cobra.Command, f formatter.Formatter, cursor tslog.Cursor) (tslog.Cursor, error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	follower := tail.NewFollowerAt(buildDir, cursor, dumpBatch)

	index := cursor.EntryIndex
	var formatErr error
	err := follower.Watch(ctx, func(entries []model.Timestamp) {
		if formatErr != nil {
			return
		}
		if err := f.Format(formatter.NewLines(index, entries)); err != nil {
			formatErr = err
			stop()
			return
		}
		index += int64(len(entries))
	})
	if err == nil {
		err = formatErr
	}
	return follower.Cursor(), err
}

// resolveOutputFormat honors an explicit --output and otherwise picks
// table output for interactive terminals, CSV for pipes.
func resolveOutputFormat(cmd *cobra.Command) string {
	if outputFormat != "" {
		return outputFormat
	}
	if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "table"
	}
	return "csv"
}

func loadCursor(path string) (tslog.Cursor, bool, error) {
	var cursor tslog.Cursor

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cursor, false, nil
		}
		return cursor, false, err
	}
	if err := sonic.Unmarshal(data, &cursor); err != nil {
		return cursor, false, fmt.Errorf("failed to parse cursor file %s: %w", path, err)
	}
	return cursor, true, nil
}

func saveCursor(path string, cursor tslog.Cursor) error {
	data, err := sonic.MarshalIndent(cursor, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
