package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const catText = "The cat sat. The CAT sat on the mat!"

// runApp runs the CLI with args and returns stdout and the returned error.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"wordfreq"}, args...))
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var ec cli.ExitCoder
	require.True(t, errors.As(err, &ec), "err=%v is not an exit coder", err)
	return ec.ExitCode()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCount(t *testing.T) {
	input := writeFile(t, "cat.txt", catText)
	dir := filepath.Join(t.TempDir(), "intermediate")

	out, err := runApp(t, "count", "--quiet", "--file", input, "--segments", "2", "--intermediate-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "the\t3\ncat\t2\nsat\t2\nmat\t1\non\t1\n", out)

	for _, name := range []string{"segment_0_counts.txt", "segment_1_counts.txt", "summary.yaml"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	merged, err := runApp(t, "merge", "--quiet", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, out, merged)
}

func TestCount_Top(t *testing.T) {
	input := writeFile(t, "cat.txt", catText)

	out, err := runApp(t, "count", "-q", "-f", input, "-n", "3", "--top", "2")
	require.NoError(t, err)
	assert.Equal(t, "the\t3\ncat\t2\n", out)
}

func TestCount_ConfigFile(t *testing.T) {
	input := writeFile(t, "cat.txt", catText)
	config := writeFile(t, "run.yaml", "file: "+input+"\nsegments: 4\ntop: 1\n")

	out, err := runApp(t, "count", "-q", "--config", config)
	require.NoError(t, err)
	assert.Equal(t, "the\t3\n", out)

	// Flags override the file.
	out, err = runApp(t, "count", "-q", "--config", config, "--top", "3")
	require.NoError(t, err)
	assert.Equal(t, "the\t3\ncat\t2\nsat\t2\n", out)
}

func TestCount_Errors(t *testing.T) {
	input := writeFile(t, "cat.txt", catText)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "zero segments", args: []string{"count", "-q", "-f", input, "-n", "0"}, code: 1},
		{name: "negative segments", args: []string{"count", "-q", "-f", input, "-n", "-3"}, code: 1},
		{name: "missing segments", args: []string{"count", "-q", "-f", input}, code: 1},
		{name: "missing file", args: []string{"count", "-q", "-f", filepath.Join(t.TempDir(), "nope"), "-n", "2"}, code: 2},
		{name: "missing config", args: []string{"count", "-q", "--config", filepath.Join(t.TempDir(), "nope.yaml")}, code: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCode(t, err))
			assert.Empty(t, out, "no ranked output on failure")
		})
	}
}

func TestPlan(t *testing.T) {
	input := writeFile(t, "cat.txt", catText)

	out, err := runApp(t, "plan", "-f", input, "-n", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "36 bytes")
	assert.Equal(t, []string{"0", "0", "21", "21", "B"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"1", "21", "36", "15", "B"}, strings.Fields(lines[3]))
}

func TestMerge_NoArtifacts(t *testing.T) {
	_, err := runApp(t, "merge", "-q", "--dir", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(t, err))
}

func TestHistory(t *testing.T) {
	input := writeFile(t, "cat.txt", catText)
	dbPath := filepath.Join(t.TempDir(), "history.db")

	_, err := runApp(t, "count", "-q", "-f", input, "-n", "2", "--history-db", dbPath)
	require.NoError(t, err)
	_, err = runApp(t, "count", "-q", "-f", filepath.Join(t.TempDir(), "gone.txt"), "-n", "2", "--history-db", dbPath)
	require.Error(t, err)

	out, err := runApp(t, "history", "--history-db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "Total: 2 runs")

	out, err = runApp(t, "show", "--history-db", dbPath, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Status:      success")
	assert.Contains(t, out, "Words:       9 total, 5 distinct")
	assert.Contains(t, out, "[0, 21)")
	assert.Contains(t, out, "the\t3")

	out, err = runApp(t, "show", "--history-db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Status:      failed")
}
