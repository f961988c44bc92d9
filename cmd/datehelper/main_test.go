package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

type runResult struct {
	out string
	err error
}

func runWithInput(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	base := []string{"--config", cfgPath, "--tz", "UTC", "--locale", "en_US"}

	root := newRootCmd(func() time.Time { return fixedNow })
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(base, args...))
	err := root.Execute()
	return runResult{out: out.String(), err: err}
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	res := runWithInput(t, "", args...)
	require.NoError(t, res.err, "args %v", args)
	return res.out
}

func TestParseCommand(t *testing.T) {
	assert.Equal(t, "2016-03-22T09:40:00Z\n", run(t, "parse", "2016/03/22 09:40"))
	assert.Equal(t, "2018-11-30T00:00:00Z\n", run(t, "parse", "-p", "d MMMM y", "30 November 2018"))

	res := runWithInput(t, "", "parse", "garbage")
	assert.Error(t, res.err)
}

func TestFormatCommand(t *testing.T) {
	assert.Equal(t, "Wednesday\n", run(t, "format", "now", "-p", "EEEE"))
	assert.Equal(t, "2024-01-10\n", run(t, "format", "now", "--short"))
	assert.Equal(t, "2018/11/30 18:15\n", run(t, "format", "2018-11-30T18:15:00Z"))
	assert.Equal(t, "10. Januar 2024\n", run(t, "format", "now", "--date-style", "long", "--locale", "de_DE"))
}

func TestAddSubCommands(t *testing.T) {
	assert.Equal(t, "2021/02/28 00:00\n", run(t, "add", "2021-01-31", "1", "months"))
	assert.Equal(t, "2024/01/08 12:00\n", run(t, "sub", "now", "2", "days"))
	assert.Equal(t, "2024/01/10 13:30\n", run(t, "add", "now", "90", "minutes"))

	// Dates are read and rendered in the configured calendar.
	assert.Equal(t, "1440/02/29 00:00\n",
		run(t, "--calendar", "islamic-civil", "add", "1440-01-30", "1", "months", "--scoped"))

	res := runWithInput(t, "", "add", "now", "x", "days")
	assert.Error(t, res.err)
	res = runWithInput(t, "", "add", "now", "1", "fortnights")
	assert.Error(t, res.err)
}

func TestTimerCommand(t *testing.T) {
	assert.Equal(t, "00:05:00\n", run(t, "timer", "2024/01/10 12:05"))
	assert.Equal(t, "+00:05:00\n", run(t, "timer", "2024/01/10 11:55"))
	assert.Equal(t, "-00:05:00\n", run(t, "timer", "2024/01/10 11:55", "--prefix", "-"))
	assert.Equal(t, "26:00:00\n", run(t, "timer", "2024/01/11 14:00", "--from", "2024/01/10 12:00"))
}

func TestInfoCommand(t *testing.T) {
	out := run(t, "info", "2024-01-05")
	assert.Contains(t, out, "jumuah           true")
	assert.Contains(t, out, "weekend          false")
	assert.Contains(t, out, "end of month     2024/01/31 23:59")
	assert.Contains(t, out, "islamic")
}

func TestZoneAndLocaleCommands(t *testing.T) {
	out := run(t, "zone", "Asia/Tokyo")
	assert.Contains(t, out, "zone             Asia/Tokyo")
	assert.Contains(t, out, "offset           32400s")

	out = run(t, "zone", "Etc/GMT-1", "--shift", "2024/01/10 10:00")
	assert.Contains(t, out, "offset           3600s")

	out = run(t, "locale", "fr_FR")
	assert.Contains(t, out, "language         fr")
	assert.Contains(t, out, "français")
	assert.Contains(t, out, "left-to-right")

	out = run(t, "locale", "ar_SA")
	assert.Contains(t, out, "right-to-left")

	res := runWithInput(t, "", "zone", "Nowhere/Special")
	assert.Error(t, res.err)
}

func TestSeriesAndNextCommands(t *testing.T) {
	assert.Equal(t, "2021/01/31 00:00\n2021/03/31 00:00\n2021/05/31 00:00\n",
		run(t, "series", "2021-01-31", "1", "months", "-n", "3"))

	assert.Equal(t, "2024/01/11 09:00\n2024/01/12 09:00\n",
		run(t, "next", "0 9 * * *", "-n", "2"))
}

func TestExpandAndICSCommands(t *testing.T) {
	out := run(t, "expand", "2024-01-01T09:00:00Z", "--rrule", "FREQ=WEEKLY;COUNT=3", "--duration", "30m",
		"--exdate", "2024-01-08T09:00:00Z")
	assert.Equal(t, "2024/01/01 09:00  2024/01/01 09:30\n2024/01/15 09:00  2024/01/15 09:30\n", out)

	body := run(t, "ics", "export", "2024-01-01T09:00:00Z", "--rrule", "FREQ=DAILY;COUNT=2", "--summary", "Daily")
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))

	res := runWithInput(t, body, "ics", "read", "-")
	require.NoError(t, res.err)
	assert.Equal(t, "2024/01/01 09:00  2024/01/01 10:00  Daily\n2024/01/02 09:00  2024/01/02 10:00  Daily\n", res.out)

	res = runWithInput(t, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", "ics", "read", "-")
	assert.Error(t, res.err)
}

func TestBadCalendarFlag(t *testing.T) {
	res := runWithInput(t, "", "--calendar", "mayan", "parse", "2016/03/22 09:40")
	assert.Error(t, res.err)
}
