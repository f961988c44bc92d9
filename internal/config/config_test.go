package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datehelper/pkg/calendar"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timezone: Asia/Tokyo\nweek_start: Friday\nlog:\n  level: loud\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, "gregorian", cfg.Calendar)
	assert.Equal(t, "", cfg.WeekStart)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
	assert.Equal(t, "yyyy/MM/dd HH:mm", cfg.DateFormat)
	assert.Equal(t, "+", cfg.TimerPrefix)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Nil(t, cfg.BasicAuth)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("calendar: [unterminated"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Calendar = "iso8601"
	cfg.Locale = "de_DE"
	cfg.WeekStart = "Sunday"
	cfg.BasicAuth = &BasicAuthConfig{Username: "admin", Password: "secret"}
	require.NoError(t, cfg.Save(path))
	assert.Equal(t, "sunday", cfg.WeekStart)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	assert.Error(t, Save(path, nil))
	assert.Error(t, Save("", cfg))
}

func TestCalendarValue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = "UTC"
	cfg.Locale = "de_DE"

	cal, err := cfg.CalendarValue()
	require.NoError(t, err)
	assert.Equal(t, calendar.Gregorian, cal.Identifier())
	assert.Equal(t, time.UTC, cal.Location())
	assert.Equal(t, time.Monday, cal.FirstWeekday())

	cfg.WeekStart = "saturday"
	cal, err = cfg.CalendarValue()
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, cal.FirstWeekday())

	cfg.Calendar = "islamic-civil"
	cal, err = cfg.CalendarValue()
	require.NoError(t, err)
	assert.True(t, cal.Identifier().IsIslamic())

	cfg.Calendar = "mayan"
	_, err = cfg.CalendarValue()
	assert.ErrorIs(t, err, calendar.ErrUnknownIdentifier)

	cfg.Calendar = "gregorian"
	cfg.Timezone = "Mars/Olympus_Mons"
	_, err = cfg.CalendarValue()
	assert.Error(t, err)

	cfg.Timezone = "UTC"
	cfg.Locale = "!!"
	_, err = cfg.CalendarValue()
	assert.Error(t, err)
}
