package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-time-clock/internal/advisor"
	"github.com/Tiliavir/trivial-time-clock/internal/config"
	"github.com/Tiliavir/trivial-time-clock/internal/model"
)

// clockAt pins the command clock to 2026-03-02 hh:mm local time.
func clockAt(t *testing.T, hh, mm int) {
	t.Helper()
	now = func() time.Time { return time.Date(2026, 3, 2, hh, mm, 0, 0, time.Local) }
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestCommandsEndToEnd(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	origNow, origInteractive := now, interactive
	t.Cleanup(func() { now, interactive = origNow, origInteractive })

	clockAt(t, 7, 55)
	out, _, err := run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Waiting for the first registration")

	clockAt(t, 8, 0)
	out, _, err = run(t, "in")
	require.NoError(t, err)
	assert.Contains(t, out, "Clock in registered at 08:00:00")

	clockAt(t, 12, 0)
	out, _, err = run(t, "break")
	require.NoError(t, err)
	assert.Contains(t, out, "Interval since 08:00:00: 4h 0m 0s")

	clockAt(t, 12, 30)
	_, _, err = run(t, "punch", "break-end")
	require.NoError(t, err)

	clockAt(t, 17, 0)
	out, _, err = run(t, "out")
	require.NoError(t, err)
	assert.Contains(t, out, "Today: 8h 30m worked")

	_, _, err = run(t, "punch", "lunch")
	assert.ErrorIs(t, err, model.ErrUnknownKind)

	out, _, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-03-02  8h 30m")
	assert.Contains(t, out, "12:30:00  Break end")

	out, _, err = run(t, "export", "--format", "json")
	require.NoError(t, err)
	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 4)
	assert.Equal(t, "CLOCK_IN", rows[0]["kind"])
	assert.Equal(t, "CLOCK_OUT", rows[3]["kind"])

	dir := t.TempDir()
	out, _, err = run(t, "export", "--format", "csv", "--output", dir)
	require.NoError(t, err)
	saved := filepath.Join(dir, "clock_2026-03.csv")
	assert.Contains(t, out, "Exported 4 events to "+saved)
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id;date;time;kind;label")
	assert.Contains(t, string(data), ";2026-03-02;17:00:00;CLOCK_OUT;Clock out")

	out, _, err = run(t, "report", "--by", "day", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-03-02,1,4,510")

	// No advisor endpoint is configured, so the fixed tip is shown.
	out, _, err = run(t, "tip")
	require.NoError(t, err)
	assert.Contains(t, out, advisor.FallbackTip)

	interactive = func() bool { return false }
	_, _, err = run(t, "clear")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out, _, err = run(t, "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "All events deleted.")

	out, _, err = run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Waiting for the first registration")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yep \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := confirm(strings.NewReader(tt.input), &out, "Sure?")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Sure? [y/n]: ", out.String())
	}
}

func TestStorageErrorExitCode(t *testing.T) {
	assert.NoError(t, storageError(nil))

	err := storageError(assert.AnError)
	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.code)
	assert.ErrorIs(t, err, assert.AnError)
}
