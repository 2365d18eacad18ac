package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildstamp/buildstamp/internal/data/tslog"
	"github.com/buildstamp/buildstamp/internal/util"
)

// setDumpFlags configures the package-level flag state for one test and
// restores the defaults afterwards.
func setDumpFlags(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, util.InitializeTimeProvider("UTC"))

	buildDir = dir
	outputFormat = "csv"
	dumpSkip = 0
	dumpLimit = 0
	dumpBatch = 100
	cursorFile = ""
	follow = false

	t.Cleanup(func() {
		buildDir = ""
		outputFormat = ""
	})
}

func newTestCommand(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	return cmd
}

func writeLog(t *testing.T, dir string, deltas []int64) {
	t.Helper()
	writer := tslog.NewWriter(dir)
	for _, delta := range deltas {
		require.NoError(t, writer.Append(delta))
	}
}

func csvRows(out *bytes.Buffer) []string {
	return strings.Split(strings.TrimSpace(out.String()), "\n")
}

func TestRunDumpPrintsAllEntries(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, []int64{1, 1, 1, 1})
	setDumpFlags(t, dir)

	var out bytes.Buffer
	require.NoError(t, runDump(newTestCommand(&out), nil))

	rows := csvRows(&out)
	require.Len(t, rows, 5, "header plus four entries")
	assert.True(t, strings.HasPrefix(rows[1], "0,1,"))
	assert.True(t, strings.HasPrefix(rows[4], "3,4,"))
}

func TestRunDumpSkipAndLimit(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, []int64{1, 1, 1, 1, 1})
	setDumpFlags(t, dir)
	dumpSkip = 1
	dumpLimit = 2

	var out bytes.Buffer
	require.NoError(t, runDump(newTestCommand(&out), nil))

	rows := csvRows(&out)
	require.Len(t, rows, 3)
	assert.True(t, strings.HasPrefix(rows[1], "1,2,"))
	assert.True(t, strings.HasPrefix(rows[2], "2,3,"))
}

func TestRunDumpEmptyLog(t *testing.T) {
	dir := t.TempDir()
	setDumpFlags(t, dir)

	var out bytes.Buffer
	require.NoError(t, runDump(newTestCommand(&out), nil))

	// Nothing but at most a header should appear for an empty log.
	assert.LessOrEqual(t, len(csvRows(&out)), 1)
}

func TestRunDumpCursorFileResumes(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, []int64{1, 1, 1, 1})
	setDumpFlags(t, dir)
	cursorFile = filepath.Join(t.TempDir(), "cursor.json")
	dumpLimit = 2

	var first bytes.Buffer
	require.NoError(t, runDump(newTestCommand(&first), nil))

	_, err := os.Stat(cursorFile)
	require.NoError(t, err, "cursor file should be persisted")

	dumpLimit = 0
	var second bytes.Buffer
	require.NoError(t, runDump(newTestCommand(&second), nil))

	firstRows := csvRows(&first)
	secondRows := csvRows(&second)
	require.Len(t, firstRows, 3)
	require.Len(t, secondRows, 3)
	assert.True(t, strings.HasPrefix(firstRows[1], "0,1,"))
	assert.True(t, strings.HasPrefix(secondRows[1], "2,3,"), "second run continues after the saved cursor")
	assert.True(t, strings.HasPrefix(secondRows[2], "3,4,"))
}

func TestResolveOutputFormat(t *testing.T) {
	var out bytes.Buffer
	cmd := newTestCommand(&out)

	outputFormat = "json"
	assert.Equal(t, "json", resolveOutputFormat(cmd))

	// A buffer is not a terminal, so the implicit format is CSV.
	outputFormat = ""
	assert.Equal(t, "csv", resolveOutputFormat(cmd))
}
