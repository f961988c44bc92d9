package log

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, level Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(level)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelDebug, ParseLevel(" DEBUG "))
	assert.Equal(t, LevelError, ParseLevel("Error"))
	assert.Equal(t, LevelInfo, ParseLevel("info"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestLevels(t *testing.T) {
	buf := capture(t, LevelInfo)
	Debug("hidden")
	Info("shown", "uid", 42)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=info")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "uid=42")

	buf.Reset()
	SetLevel(LevelError)
	Info("quiet")
	Error("failed", errors.New("boom"), "op", "parse")
	out = buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, "err=boom")
	assert.Contains(t, out, "op=parse")

	buf.Reset()
	SetLevel(LevelDebug)
	Debug("details", "dangling")
	assert.Contains(t, buf.String(), "msg=details")
}
