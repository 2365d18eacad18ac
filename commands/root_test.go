package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func() string
	}{
		{
			name:  "home directory expansion",
			input: "~/builds",
			expected: func() string {
				home, _ := os.UserHomeDir()
				return filepath.Join(home, "builds")
			},
		},
		{
			name:     "absolute path unchanged",
			input:    "/var/builds/42",
			expected: func() string { return "/var/builds/42" },
		},
		{
			name:  "relative path converted to absolute",
			input: "builds",
			expected: func() string {
				cwd, _ := os.Getwd()
				return filepath.Join(cwd, "builds")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected(), expandPath(tt.input))
		})
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "build", "dir")

	require.NoError(t, ensureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRunStatsSummarizesLog(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, []int64{1, 2, 3, 4})
	setDumpFlags(t, dir)

	var out bytes.Buffer
	require.NoError(t, runStats(newTestCommand(&out), nil))

	output := out.String()
	assert.Contains(t, output, "Entries")
	assert.Contains(t, output, "4")
	assert.Contains(t, output, "Clock shifts")
}

func TestRunStatsEmptyLog(t *testing.T) {
	dir := t.TempDir()
	setDumpFlags(t, dir)

	var out bytes.Buffer
	require.NoError(t, runStats(newTestCommand(&out), nil))
	assert.Contains(t, out.String(), "0")
}
